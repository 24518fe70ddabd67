/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database file.
*/
package sqlite3adapter

import (
	"database/sql"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/uab-projects/decision-trees/dataset/sqldataset"
)

// Dialect is the SQL dialect of SQLite3
var Dialect = sqldataset.Dialect{
	SerialKey: "INTEGER PRIMARY KEY AUTOINCREMENT",
	Real:      "REAL",
	Placeholder: func(int) string {
		return "?"
	},
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err = db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	return sqldataset.New(db, Dialect), nil
}
