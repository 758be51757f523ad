package database

// SQLite DDL mirroring the gorm models. AutoMigrate is not used on SQLite
// because the models carry PostgreSQL defaults such as gen_random_uuid().

// DirectoryTables lists the directory tables children first, the order
// Truncate needs.
var DirectoryTables = []string{
	"provider_tags",
	"social_links",
	"service_provider_products",
	"service_provider_reviews",
	"service_provider_images",
	"service_provider_specification_values",
	"service_providers",
	"tags",
	"service_provider_specifications",
	"service_provider_types",
	"categories",
}

// AuthTables lists the auth tables children first.
var AuthTables = []string{
	"refresh_tokens",
	"profiles",
	"users",
}

var directorySQLiteSchema = []string{
	`CREATE TABLE IF NOT EXISTS "categories" (
		"id" TEXT PRIMARY KEY,
		"name" TEXT NOT NULL UNIQUE,
		"slug" TEXT NOT NULL UNIQUE,
		"parent_id" TEXT,
		"is_active" INTEGER NOT NULL DEFAULT 1,
		"created_at" DATETIME,
		"updated_at" DATETIME,
		CONSTRAINT fk_categories_children FOREIGN KEY ("parent_id") REFERENCES "categories"("id") ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON "categories"("parent_id")`,

	`CREATE TABLE IF NOT EXISTS "service_provider_types" (
		"id" TEXT PRIMARY KEY,
		"name" TEXT NOT NULL UNIQUE,
		"is_active" INTEGER NOT NULL DEFAULT 1
	)`,

	`CREATE TABLE IF NOT EXISTS "service_provider_specifications" (
		"id" TEXT PRIMARY KEY,
		"type_id" TEXT NOT NULL,
		"name" TEXT NOT NULL,
		CONSTRAINT fk_service_provider_types_specifications FOREIGN KEY ("type_id") REFERENCES "service_provider_types"("id")
	)`,
	`CREATE INDEX IF NOT EXISTS idx_service_provider_specifications_type_id ON "service_provider_specifications"("type_id")`,

	`CREATE TABLE IF NOT EXISTS "tags" (
		"id" TEXT PRIMARY KEY,
		"name" TEXT NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS "service_providers" (
		"id" TEXT PRIMARY KEY,
		"type_id" TEXT,
		"category_id" TEXT NOT NULL,
		"title" TEXT NOT NULL,
		"slug" TEXT NOT NULL UNIQUE,
		"description" TEXT,
		"address" TEXT,
		"phone" TEXT,
		"website" TEXT,
		"rating" REAL NOT NULL DEFAULT 0,
		"is_active" INTEGER NOT NULL DEFAULT 1,
		"pinned_count" INTEGER NOT NULL DEFAULT 0,
		"owner" TEXT NOT NULL,
		"created_at" DATETIME,
		"updated_at" DATETIME,
		CONSTRAINT fk_service_providers_type FOREIGN KEY ("type_id") REFERENCES "service_provider_types"("id"),
		CONSTRAINT fk_service_providers_category FOREIGN KEY ("category_id") REFERENCES "categories"("id")
	)`,
	`CREATE INDEX IF NOT EXISTS idx_service_providers_category_id ON "service_providers"("category_id")`,
	`CREATE INDEX IF NOT EXISTS idx_service_providers_type_id ON "service_providers"("type_id")`,
	`CREATE INDEX IF NOT EXISTS idx_service_providers_owner ON "service_providers"("owner")`,

	`CREATE TABLE IF NOT EXISTS "provider_tags" (
		"service_provider_id" TEXT NOT NULL,
		"tag_id" TEXT NOT NULL,
		PRIMARY KEY ("service_provider_id", "tag_id")
	)`,

	`CREATE TABLE IF NOT EXISTS "service_provider_specification_values" (
		"id" TEXT PRIMARY KEY,
		"provider_id" TEXT NOT NULL,
		"specification_id" TEXT NOT NULL,
		"value" TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_spec_values_provider_id ON "service_provider_specification_values"("provider_id")`,

	`CREATE TABLE IF NOT EXISTS "service_provider_images" (
		"id" TEXT PRIMARY KEY,
		"provider_id" TEXT NOT NULL,
		"image_url" TEXT NOT NULL,
		"object_path" TEXT,
		"alt_text" TEXT,
		"is_feature" INTEGER NOT NULL DEFAULT 0,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_service_provider_images_provider_id ON "service_provider_images"("provider_id")`,

	`CREATE TABLE IF NOT EXISTS "service_provider_reviews" (
		"id" TEXT PRIMARY KEY,
		"provider_id" TEXT NOT NULL,
		"user_id" TEXT NOT NULL,
		"rating" REAL NOT NULL CHECK ("rating" >= 0 AND "rating" <= 5),
		"comment" TEXT NOT NULL,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_service_provider_reviews_provider_id ON "service_provider_reviews"("provider_id")`,

	`CREATE TABLE IF NOT EXISTS "service_provider_products" (
		"id" TEXT PRIMARY KEY,
		"provider_id" TEXT NOT NULL,
		"name" TEXT NOT NULL,
		"category" TEXT NOT NULL,
		"image" TEXT,
		"image_path" TEXT,
		"price" NUMERIC NOT NULL,
		"description" TEXT,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_service_provider_products_provider_id ON "service_provider_products"("provider_id")`,

	`CREATE TABLE IF NOT EXISTS "social_links" (
		"id" TEXT PRIMARY KEY,
		"provider_id" TEXT NOT NULL,
		"social_type" TEXT NOT NULL DEFAULT 'facebook',
		"url" TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_social_links_provider_id ON "social_links"("provider_id")`,
}

var authSQLiteSchema = []string{
	`CREATE TABLE IF NOT EXISTS "users" (
		"id" TEXT PRIMARY KEY,
		"username" TEXT NOT NULL UNIQUE,
		"email" TEXT NOT NULL UNIQUE,
		"password" TEXT NOT NULL,
		"first_name" TEXT,
		"last_name" TEXT,
		"email_verified" INTEGER NOT NULL DEFAULT 0,
		"profile_picture" TEXT,
		"picture_path" TEXT,
		"subscription_plan" TEXT,
		"otp" TEXT,
		"otp_created_at" DATETIME,
		"accept_terms" INTEGER NOT NULL DEFAULT 0,
		"is_staff" INTEGER NOT NULL DEFAULT 0,
		"is_superuser" INTEGER NOT NULL DEFAULT 0,
		"is_active" INTEGER NOT NULL DEFAULT 1,
		"last_login" DATETIME,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,

	`CREATE TABLE IF NOT EXISTS "profiles" (
		"id" TEXT PRIMARY KEY,
		"user_id" TEXT NOT NULL UNIQUE,
		"reset_password_token" TEXT,
		"reset_password_expire" DATETIME,
		CONSTRAINT fk_users_profile FOREIGN KEY ("user_id") REFERENCES "users"("id") ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_profiles_reset_password_token ON "profiles"("reset_password_token")`,

	`CREATE TABLE IF NOT EXISTS "refresh_tokens" (
		"id" TEXT PRIMARY KEY,
		"user_id" TEXT NOT NULL,
		"token" TEXT NOT NULL UNIQUE,
		"expires_at" DATETIME NOT NULL,
		"revoked_at" DATETIME,
		"created_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON "refresh_tokens"("user_id")`,
}
