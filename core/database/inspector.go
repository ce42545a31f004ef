package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column describes one table column as reported by the database.
type Column struct {
	Name string
	Type string
}

// Columns returns the columns of table with lowercased names and types.
func Columns(db *gorm.DB, table string) ([]Column, error) {
	types, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}

	columns := make([]Column, 0, len(types))
	for _, ct := range types {
		columns = append(columns, Column{
			Name: strings.ToLower(ct.Name()),
			Type: strings.ToLower(ct.DatabaseTypeName()),
		})
	}
	return columns, nil
}

// MissingColumns reports which of the required columns table lacks.
func MissingColumns(db *gorm.DB, table string, required []string) ([]string, error) {
	columns, err := Columns(db, table)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c.Name] = true
	}

	var missing []string
	for _, name := range required {
		if !have[strings.ToLower(name)] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
