package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Nested profile fields are stored as JSONB columns in Postgres.

func (a Availability) Value() (driver.Value, error) {
	return jsonValue(a)
}

func (a *Availability) Scan(src interface{}) error {
	return scanJSON(src, a)
}

func (p NotificationPrefs) Value() (driver.Value, error) {
	return jsonValue(p)
}

func (p *NotificationPrefs) Scan(src interface{}) error {
	return scanJSON(src, p)
}

func (e EmergencyContact) Value() (driver.Value, error) {
	return jsonValue(e)
}

func (e *EmergencyContact) Scan(src interface{}) error {
	return scanJSON(src, e)
}

func (m Medicines) Value() (driver.Value, error) {
	return jsonValue(m)
}

func (m *Medicines) Scan(src interface{}) error {
	return scanJSON(src, m)
}

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
}
