package database

import (
	"context"
	"database/sql"
)

// schema lists the DDL for every table, in dependency order. Statements are
// idempotent so EnsureSchema can run on every boot.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		force_reset TINYINT(1) NOT NULL DEFAULT 0,
		first_name VARCHAR(100) NOT NULL DEFAULT '',
		last_name VARCHAR(100) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_sessions_token (token_hash),
		KEY ix_sessions_user (user_id),
		CONSTRAINT fk_sessions_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS combats (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		owner_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		type VARCHAR(20) NOT NULL DEFAULT 'sabre-laser',
		archived TINYINT(1) NOT NULL DEFAULT 0,
		version BIGINT UNSIGNED NOT NULL DEFAULT 1,
		participants JSON NOT NULL,
		phrases JSON NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY ix_combats_owner (owner_id),
		CONSTRAINT fk_combats_owner FOREIGN KEY (owner_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS combat_shares (
		combat_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		role VARCHAR(10) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (combat_id, user_id),
		CONSTRAINT fk_shares_combat FOREIGN KEY (combat_id) REFERENCES combats (id),
		CONSTRAINT fk_shares_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS lexicon_items (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		category VARCHAR(50) NOT NULL,
		label VARCHAR(255) NOT NULL,
		user_id BIGINT UNSIGNED NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_lexicon_scope (category, label, user_id),
		KEY ix_lexicon_category (category),
		CONSTRAINT fk_lexicon_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS favorites (
		user_id BIGINT UNSIGNED NOT NULL,
		category VARCHAR(50) NOT NULL,
		label VARCHAR(255) NOT NULL,
		PRIMARY KEY (user_id, category, label),
		CONSTRAINT fk_favorites_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		actor_id BIGINT UNSIGNED NOT NULL,
		action VARCHAR(100) NOT NULL,
		target_id BIGINT UNSIGNED NULL,
		meta JSON NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY ix_audit_actor (actor_id),
		KEY ix_audit_created (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates missing tables. It runs once at startup, explicitly,
// instead of lazily from the first query that needs a table.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
