package components

import (
	"fmt"
	"reflect"
	"strings"

	"ebiten-survivor/ecs"
)

// componentNameMap maps string component names to their IDs
var componentNameMap = map[string]ecs.ComponentID{
	"Position":     Position,
	"Velocity":     Velocity,
	"Motion":       Motion,
	"Renderable":   Renderable,
	"Player":       Player,
	"PlayerInput":  PlayerInput,
	"Health":       Health,
	"Collision":    Collision,
	"Enemy":        Enemy,
	"AI":           AI,
	"Weapon":       Weapon,
	"Projectile":   Projectile,
	"Experience":   Experience,
	"Pickup":       Pickup,
	"StatusEffect": StatusEffect,
	"Name":         Name,
}

// GetComponentIDByName returns the ComponentID for a given component name string
// The lookup is case-insensitive
func GetComponentIDByName(name string) (ecs.ComponentID, bool) {
	// Try exact match first
	if id, exists := componentNameMap[name]; exists {
		return id, true
	}

	for compName, id := range componentNameMap {
		if strings.EqualFold(compName, name) {
			return id, true
		}
	}

	return 0, false
}

// SetComponentProperty sets the value of a property in a component
// Uses reflection so balance overrides can target any numeric, bool or string field
func SetComponentProperty(comp interface{}, propertyName string, value interface{}) error {
	val := reflect.ValueOf(comp)

	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("component must be a pointer to struct: %T", comp)
	}
	val = val.Elem()

	field := val.FieldByName(propertyName)
	if !field.IsValid() {
		return fmt.Errorf("property not found: %s", propertyName)
	}
	if !field.CanSet() {
		return fmt.Errorf("property cannot be set: %s", propertyName)
	}

	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v := value.(type) {
		case int:
			field.SetInt(int64(v))
		case int64:
			field.SetInt(v)
		case float64:
			// JSON numbers decode as float64
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("cannot convert %T to int for property %s", value, propertyName)
		}

	case reflect.Float32, reflect.Float64:
		switch v := value.(type) {
		case float64:
			field.SetFloat(v)
		case float32:
			field.SetFloat(float64(v))
		case int:
			field.SetFloat(float64(v))
		default:
			return fmt.Errorf("cannot convert %T to float64 for property %s", value, propertyName)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("cannot convert %T to bool for property %s", value, propertyName)
		}
		field.SetBool(boolVal)

	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("cannot convert %T to string for property %s", value, propertyName)
		}
		field.SetString(strVal)

	default:
		return fmt.Errorf("unsupported property type: %s for %s", field.Kind(), propertyName)
	}

	return nil
}
