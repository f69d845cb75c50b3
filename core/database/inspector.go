package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // Pointer because NULL default is possible
	Extra   string
}

// GetTableColumns retrieves the column definitions for a given table.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	if db.Dialector.Name() == "sqlite" {
		type SQLiteColumn struct {
			Cid        int
			Name       string
			Type       string
			Notnull    int
			DefaultVal *string
			Pk         int
		}
		var sqliteCols []SQLiteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			columns = append(columns, ColumnInfo{
				Field: strings.ToLower(col.Name),
				Type:  strings.ToLower(col.Type),
			})
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// SchemaReport lists what is missing from the expected schema.
type SchemaReport struct {
	// MissingTables are expected tables that do not exist.
	MissingTables []string `json:"missing_tables"`
	// MissingColumns maps a table to its expected columns that do not exist.
	MissingColumns map[string][]string `json:"missing_columns"`
}

// OK reports whether nothing is missing.
func (r SchemaReport) OK() bool {
	return len(r.MissingTables) == 0 && len(r.MissingColumns) == 0
}

// CheckSchema compares the live schema against expected, a map of table name
// to required column names.
func CheckSchema(db *gorm.DB, expected map[string][]string) (SchemaReport, error) {
	report := SchemaReport{MissingTables: []string{}, MissingColumns: map[string][]string{}}

	for table, wantCols := range expected {
		columns, err := GetTableColumns(db, table)
		if err != nil {
			return report, err
		}
		if len(columns) == 0 {
			report.MissingTables = append(report.MissingTables, table)
			continue
		}

		have := make(map[string]struct{}, len(columns))
		for _, c := range columns {
			have[c.Field] = struct{}{}
		}
		for _, col := range wantCols {
			if _, ok := have[strings.ToLower(col)]; !ok {
				report.MissingColumns[table] = append(report.MissingColumns[table], col)
			}
		}
	}
	return report, nil
}
