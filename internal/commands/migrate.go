package commands

import (
	"fmt"
	"log"

	"schoolsync/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Create type: user_role.",
		Query: `
        DO $$ BEGIN
            CREATE TYPE "user_role" AS ENUM ('ADMIN', 'DASHBOARD');
        EXCEPTION WHEN duplicate_object THEN NULL;
        END $$;`,
	},
	{
		Index:       2,
		Description: "Create type: staff_department.",
		Query: `
        DO $$ BEGIN
            CREATE TYPE "staff_department" AS ENUM ('ACADEMIC', 'ADMIN', 'NON_ACADEMIC', 'MANAGEMENT');
        EXCEPTION WHEN duplicate_object THEN NULL;
        END $$;`,
	},
	{
		Index:       3,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            login text not null unique,
            password text not null,
            role user_role,
            full_name text,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       4,
		Description: "Create user with login: Admin01, password: 1",
		Query: `
        INSERT INTO users(login, role, password)
        SELECT 'Admin01', 'ADMIN', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2'
        WHERE NOT EXISTS (SELECT login FROM users WHERE login = 'Admin01');
        `,
	},
	{
		Index:       5,
		Description: "Create table: schools.",
		Query: `
        CREATE TABLE IF NOT EXISTS schools (
            id serial primary key,
            name text not null,
            short_name text,
            kiosk_token text not null unique,
            mon_start text, mon_end text,
            tue_start text, tue_end text,
            wed_start text, wed_end text,
            thu_start text, thu_end text,
            fri_start text, fri_end text,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       6,
		Description: "Create table: staff.",
		Query: `
        CREATE TABLE IF NOT EXISTS staff (
            id serial primary key,
            school_id int not null references schools(id) ON DELETE CASCADE,
            external_id text not null,
            full_name text not null,
            department staff_department not null,
            active boolean not null default true,
            times_late int not null default 0,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id),
            UNIQUE (school_id, external_id)
        );`,
	},
	{
		Index:       7,
		Description: "Create table: attendance.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance (
            id serial primary key,
            staff_id int not null references staff(id) ON DELETE CASCADE,
            work_day date not null,
            come_time timestamp,
            leave_time timestamp,
            is_late boolean not null default false,
            late_minutes int not null default 0 CHECK (late_minutes >= 0),
            overtime_minutes int not null default 0 CHECK (overtime_minutes >= 0),
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id),
            UNIQUE (staff_id, work_day)
        );`,
	},
	{
		Index:       8,
		Description: "Create index: attendance by work_day.",
		Query: `
        CREATE INDEX IF NOT EXISTS attendance_work_day_idx ON attendance (work_day);`,
	},
}

// MigrateUP applies the schema list in order.
func MigrateUP(db *postgresql.Database) error {
	for _, s := range scheme {
		if _, err := db.Exec(s.Query); err != nil {
			return errors.Wrap(err, fmt.Sprintf("migration %d (%s)", s.Index, s.Description))
		}
		log.Printf("migration %d applied: %s", s.Index, s.Description)
	}

	return nil
}
