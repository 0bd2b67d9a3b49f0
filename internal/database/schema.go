package database

import (
	"context"
	"database/sql"
)

// globalSchema creates the tables of the global database.  Only user
// accounts live here; regional data references users by id with no
// foreign key across stores.
var globalSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username      VARCHAR(64)  NOT NULL,
		first_name    VARCHAR(64)  NOT NULL,
		last_name     VARCHAR(64)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username)
	)`,
}

// localSchema creates the tables of one region database.  Two unique
// indexes carry the core correctness properties of the booking
// protocol: uq_reservation_seats_seat makes a seat holdable by at
// most one active reservation, and uq_payments_reservation makes a
// reservation payable at most once.  Both turn a lost race into a
// duplicate-key error instead of corrupt state; holds and payments
// are hard-deleted with their reservation, so the plain unique index
// only ever covers active rows.
var localSchema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title       VARCHAR(255) NOT NULL,
		runtime_min INT UNSIGNED NOT NULL,
		PRIMARY KEY (id)
	)`,
	`CREATE TABLE IF NOT EXISTS halls (
		id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(128) NOT NULL,
		PRIMARY KEY (id)
	)`,
	`CREATE TABLE IF NOT EXISTS hall_rows (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		hall_id    BIGINT UNSIGNED NOT NULL,
		row_number INT UNSIGNED NOT NULL,
		seat_count INT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		KEY idx_hall_rows_hall (hall_id),
		CONSTRAINT fk_hall_rows_hall FOREIGN KEY (hall_id) REFERENCES halls (id)
	)`,
	`CREATE TABLE IF NOT EXISTS seats (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		row_id      BIGINT UNSIGNED NOT NULL,
		seat_number INT UNSIGNED NOT NULL,
		seat_type   VARCHAR(16) NOT NULL DEFAULT 'STANDARD',
		PRIMARY KEY (id),
		KEY idx_seats_row (row_id),
		CONSTRAINT fk_seats_row FOREIGN KEY (row_id) REFERENCES hall_rows (id)
	)`,
	`CREATE TABLE IF NOT EXISTS shows (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		movie_id    BIGINT UNSIGNED NOT NULL,
		hall_id     BIGINT UNSIGNED NOT NULL,
		start_time  DATETIME NOT NULL,
		price_cents INT UNSIGNED NULL,
		PRIMARY KEY (id),
		KEY idx_shows_hall (hall_id),
		CONSTRAINT fk_shows_movie FOREIGN KEY (movie_id) REFERENCES movies (id),
		CONSTRAINT fk_shows_hall FOREIGN KEY (hall_id) REFERENCES halls (id)
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		show_id    BIGINT UNSIGNED NOT NULL,
		status     VARCHAR(16) NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		KEY idx_reservations_user (user_id),
		KEY idx_reservations_status_created (status, created_at),
		CONSTRAINT fk_reservations_show FOREIGN KEY (show_id) REFERENCES shows (id)
	)`,
	`CREATE TABLE IF NOT EXISTS reservation_seats (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		reservation_id BIGINT UNSIGNED NOT NULL,
		seat_id        BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_reservation_seats_seat (seat_id),
		KEY idx_reservation_seats_reservation (reservation_id),
		CONSTRAINT fk_reservation_seats_reservation FOREIGN KEY (reservation_id) REFERENCES reservations (id),
		CONSTRAINT fk_reservation_seats_seat FOREIGN KEY (seat_id) REFERENCES seats (id)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		reservation_id BIGINT UNSIGNED NOT NULL,
		amount_cents   INT UNSIGNED NOT NULL,
		method         VARCHAR(32) NOT NULL,
		status         VARCHAR(16) NOT NULL,
		payment_ref    VARCHAR(64) NOT NULL,
		created_at     DATETIME NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_payments_reservation (reservation_id),
		CONSTRAINT fk_payments_reservation FOREIGN KEY (reservation_id) REFERENCES reservations (id)
	)`,
}

// MigrateGlobal applies the global schema.
func MigrateGlobal(ctx context.Context, db *sql.DB) error {
	return apply(ctx, db, globalSchema)
}

// MigrateLocal applies the regional schema to one region database.
func MigrateLocal(ctx context.Context, db *sql.DB) error {
	return apply(ctx, db, localSchema)
}

func apply(ctx context.Context, db *sql.DB, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
