package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scanner maps sql rows onto structs by matching snake_case columns to
// exported field names, converting the driver types sqlite hands back
// (int64 booleans, string timestamps, uuid strings).
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

func (s *Scanner) ScanRowToStruct(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	destElem := destValue.Elem()
	destType := destElem.Type()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	if !rows.Next() {
		return sql.ErrNoRows
	}

	scanArgs := make([]interface{}, len(columns))
	for i := range scanArgs {
		scanArgs[i] = new(interface{})
	}

	if err := rows.Scan(scanArgs...); err != nil {
		return err
	}

	for i, colName := range columns {
		val := *(scanArgs[i].(*interface{}))

		field := s.findStructField(destType, colName)

		if field.Name == "" || field.Type == nil {
			continue
		}

		if err := s.setFieldValue(destElem.FieldByIndex(field.Index), val); err != nil {
			slog.Warn("Failed to set field", "field", field.Name, "error", err)
		}
	}

	return nil
}

func (s *Scanner) ScanRowsToSlice(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice")
	}

	sliceValue := destValue.Elem()
	elemType := sliceValue.Type().Elem()

	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("slice elements must be structs")
	}

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	for rows.Next() {
		elemValue := reflect.New(elemType).Elem()

		scanArgs := make([]interface{}, len(columns))
		for i := range scanArgs {
			scanArgs[i] = new(interface{})
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return err
		}

		for i, colName := range columns {
			val := *(scanArgs[i].(*interface{}))

			field := s.findStructField(elemType, colName)

			if field.Name == "" || field.Type == nil {
				continue
			}

			if err := s.setFieldValue(elemValue.FieldByIndex(field.Index), val); err != nil {
				slog.Warn("Failed to set field", "field", field.Name, "error", err)
			}
		}

		sliceValue.Set(reflect.Append(sliceValue, elemValue))
	}

	return rows.Err()
}

func (s *Scanner) findStructField(structType reflect.Type, colName string) reflect.StructField {
	normalized := strings.ReplaceAll(strings.ToLower(colName), "_", "")

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if strings.ToLower(field.Name) == normalized {
			return field
		}
	}

	return reflect.StructField{}
}

func (s *Scanner) setFieldValue(field reflect.Value, val interface{}) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	if val == nil {
		return nil
	}

	fieldType := field.Type()
	valValue := reflect.ValueOf(val)

	if valValue.Type().AssignableTo(fieldType) {
		field.Set(valValue)
		return nil
	}

	switch fieldType.String() {
	case "uuid.UUID":
		if str, ok := stringValue(val); ok {
			parsed, err := uuid.Parse(str)

			if err != nil {
				return err
			}

			field.Set(reflect.ValueOf(parsed))
		}

		return nil
	case "time.Time":
		if str, ok := stringValue(val); ok {
			return setTimeValue(field, str)
		}

		return nil
	}

	switch fieldType.Kind() {
	case reflect.String:
		if str, ok := stringValue(val); ok {
			field.SetString(str)
		}
	case reflect.Int, reflect.Int64:
		if n, ok := val.(int64); ok {
			field.SetInt(n)
		}
	case reflect.Bool:
		switch v := val.(type) {
		case bool:
			field.SetBool(v)
		case int64:
			field.SetBool(v != 0)
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := val.(float64); ok {
			field.SetFloat(f)
		}
	}

	return nil
}

func stringValue(val interface{}) (string, bool) {
	switch v := val.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}

	return "", false
}

func setTimeValue(field reflect.Value, str string) error {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, str); err == nil {
			field.Set(reflect.ValueOf(parsed))
			return nil
		}
	}

	return fmt.Errorf("unsupported time format: %s", str)
}
