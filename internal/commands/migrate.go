package commands

import (
	"fmt"
	"log"

	"timetrack/backend/internal/pkg/repository/postgresql"

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
		Description: "CREATE TYPE \"user_role\" AS ENUM",
		Query: `
        CREATE TYPE "user_role" AS ENUM ('EMPLOYEE', 'ADMIN');`,
	},
	{
		Index:       2,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            username text not null,
            password text not null,
            role user_role not null default 'EMPLOYEE',
            full_name text not null,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       3,
		Description: "Unique username among live rows.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS ux_users_username
            ON users (username) WHERE deleted_at IS NULL;`,
	},
	{
		Index:       4,
		Description: "CREATE TYPE \"work_log_type\" AS ENUM",
		Query: `
        CREATE TYPE "work_log_type" AS ENUM ('work', 'absence');`,
	},
	{
		Index:       5,
		Description: "Create table: work_logs.",
		Query: `
        CREATE TABLE IF NOT EXISTS work_logs (
            id serial primary key,
            user_id int not null references users(id),
            log_date date not null,
            start_time text not null,
            end_time text not null,
            total_hours int not null,
            type work_log_type not null default 'work',
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
		Description: "One live work log per user, date and type.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS ux_work_logs_user_date_type
            ON work_logs (user_id, log_date, type) WHERE deleted_at IS NULL;`,
	},
	{
		Index:       7,
		Description: "CREATE TYPE \"absence_status\" AS ENUM",
		Query: `
        CREATE TYPE "absence_status" AS ENUM ('pending', 'approved', 'rejected');`,
	},
	{
		Index:       8,
		Description: "Create table: absences.",
		Query: `
        CREATE TABLE IF NOT EXISTS absences (
            id serial primary key,
            user_id int not null references users(id),
            start_date date not null,
            end_date date not null,
            reason text not null,
            status absence_status not null default 'pending',
            file_url text,
            is_partial boolean default false,
            partial_hours int,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       9,
		Description: "Index absence ranges per user.",
		Query: `
        CREATE INDEX IF NOT EXISTS ix_absences_user_range
            ON absences (user_id, start_date, end_date) WHERE deleted_at IS NULL;`,
	},
}

// Migrate creates the scheme in the database.
func Migrate(db *postgresql.Database) {
	for _, s := range scheme {
		if _, err := db.Query(s.Query); err != nil {
			log.Fatalln("migrate error", err)
		}
	}
}

func MigrateUP(db *postgresql.Database) {
	var (
		version int
		dirty   bool
		er      *string
	)
	err := db.QueryRow("SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &er)
	if err != nil {
		if err.Error() == `ERROR: relation "schema_migrations" does not exist (SQLSTATE=42P01)` {
			if _, err = db.Exec(`
				CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text);
				DELETE FROM schema_migrations;
				INSERT INTO schema_migrations (version, dirty) values (0, false);
			`); err != nil {
				log.Fatalln("migrate schema_migrations create error", err)
			}
			version = 0
			dirty = false
		} else {
			log.Fatalln("migrate schema_migrations scan: ", err)
		}
	}

	if dirty {
		for _, v := range scheme {
			if v.Index == version {
				if _, err = db.Exec(v.Query); err != nil {
					if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s'`, err.Error())); err != nil {
						log.Fatalln("migrate error", err)
					}
					log.Fatalln(fmt.Sprintf("migrate error version: %d", version), err)
				}
				if _, err = db.Exec(`UPDATE schema_migrations SET dirty = false, error = null`); err != nil {
					log.Fatalln("migrate error", err)
				}
			}
		}
	}

	for _, s := range scheme {
		if s.Index > version {
			if _, err = db.Exec(s.Query); err != nil {
				if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s', version = %d, dirty = true`, err.Error(), s.Index)); err != nil {
					log.Fatalln("migrate error", err)
				}
				log.Fatalln(fmt.Sprintf("migrate error version: %d", s.Index), err)
			}
			if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET version = %d`, s.Index)); err != nil {
				log.Fatalln("migrate error", err)
			}
		}
	}
}
