package database

import (
	"context"
	"fmt"

	"weekend-match-api/core/logger"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		city         TEXT NOT NULL CHECK (btrim(city) <> ''),
		kind         TEXT NOT NULL CHECK (kind IN ('dinner', 'brunch')),
		start_time   TIMESTAMPTZ NOT NULL,
		day_bucket   DATE NOT NULL,
		neighborhood TEXT,
		capacity     INT NOT NULL DEFAULT 24 CHECK (capacity > 0),
		status       TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'full', 'closed')),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_events_city_day_live
		ON events (city, day_bucket) WHERE status IN ('open', 'full')`,
	`CREATE INDEX IF NOT EXISTS ix_events_city_start ON events (city, start_time)`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id     UUID NOT NULL,
		event_id    UUID NOT NULL REFERENCES events (id),
		status      TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'cancelled')),
		paid        BOOLEAN NOT NULL DEFAULT FALSE,
		preferences JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT ux_bookings_user_event UNIQUE (user_id, event_id)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_bookings_event ON bookings (event_id)`,

	`CREATE TABLE IF NOT EXISTS match_groups (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL,
		group_type TEXT NOT NULL DEFAULT 'mixed' CHECK (group_type IN ('mixed', 'single-gender')),
		status     TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'archived')),
		match_week DATE NOT NULL,
		event_id   UUID REFERENCES events (id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_match_groups_event_active
		ON match_groups (event_id) WHERE status = 'active'`,

	`CREATE TABLE IF NOT EXISTS group_members (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		group_id   UUID NOT NULL REFERENCES match_groups (id),
		user_id    UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT ux_group_members UNIQUE (group_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS conversations (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		group_id   UUID NOT NULL UNIQUE REFERENCES match_groups (id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS user_preferences (
		user_id           UUID PRIMARY KEY,
		specialty         TEXT,
		city              TEXT NOT NULL DEFAULT '',
		neighborhood      TEXT NOT NULL DEFAULT '',
		sports            TEXT[] NOT NULL DEFAULT '{}',
		social_style      TEXT[] NOT NULL DEFAULT '{}',
		culture_interests TEXT[] NOT NULL DEFAULT '{}',
		lifestyle         TEXT[] NOT NULL DEFAULT '{}',
		availability      TEXT[] NOT NULL DEFAULT '{}',
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS match_scores (
		user_id       UUID NOT NULL,
		other_user_id UUID NOT NULL,
		score         DOUBLE PRECISION NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, other_user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    UUID NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL,
		type       TEXT NOT NULL,
		dedupe_key TEXT NOT NULL DEFAULT '',
		data       JSONB NOT NULL DEFAULT '{}'::jsonb,
		is_read    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT ux_notifications_dedupe UNIQUE (user_id, type, dedupe_key)
	)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db IDatabase) error {
	for i, stmt := range schema {
		if err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error("Database:Migrate", "step", i, "error", err)
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	logger.Info("Database:Migrate:Done", "steps", len(schema))
	return nil
}
