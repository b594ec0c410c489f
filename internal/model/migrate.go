package model

import (
	"fmt"

	"gorm.io/gorm"
)

// OverlapGuardName names the store-level constraint that rejects a second
// occupying appointment overlapping an existing one for the same agent.
const OverlapGuardName = "appointments_no_overlap"

// AutoMigrate migrates the scheduler tables and installs the overlap guard.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Contact{},
		&AvailabilityRule{},
		&AvailabilityException{},
		&Appointment{},
	); err != nil {
		return err
	}
	return installOverlapGuard(db)
}

func installOverlapGuard(db *gorm.DB) error {
	var stmts []string
	switch db.Dialector.Name() {
	case "postgres":
		stmts = []string{
			`CREATE EXTENSION IF NOT EXISTS btree_gist`,
			`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '` + OverlapGuardName + `') THEN
		ALTER TABLE appointments ADD CONSTRAINT ` + OverlapGuardName + `
			EXCLUDE USING gist (
				agent_id WITH =,
				tstzrange(scheduled_for, ends_at, '[)') WITH &&
			) WHERE (status IN ('scheduled', 'confirmed'));
	END IF;
END $$`,
		}
	case "sqlite":
		// SQLite has no exclusion constraints; RAISE(ABORT) surfaces as SQLITE_CONSTRAINT.
		stmts = []string{
			`CREATE TRIGGER IF NOT EXISTS ` + OverlapGuardName + `
BEFORE INSERT ON appointments
WHEN NEW.status IN ('scheduled', 'confirmed')
BEGIN
	SELECT RAISE(ABORT, '` + OverlapGuardName + `')
	WHERE EXISTS (
		SELECT 1 FROM appointments a
		WHERE a.agent_id = NEW.agent_id
			AND a.status IN ('scheduled', 'confirmed')
			AND datetime(a.scheduled_for) < datetime(NEW.ends_at)
			AND datetime(NEW.scheduled_for) < datetime(a.ends_at)
	);
END`,
		}
	default:
		return nil
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install overlap guard: %w", err)
		}
	}
	return nil
}
