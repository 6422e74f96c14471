package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ErrUnknownField is returned when a filter names a column the entity does not expose.
var ErrUnknownField = errors.New("unknown field")

// Filter maps column names to the value they must equal.
type Filter map[string]any

// Repository is the generic persistence surface used by the query services.
type Repository[T any] interface {
	All(ctx context.Context) ([]T, error)
	FirstBy(ctx context.Context, filter Filter) (T, error)
	FindBy(ctx context.Context, filter Filter) ([]T, error)
	FindWhere(ctx context.Context, clause string, args ...any) ([]T, error)
	Create(ctx context.Context, item *T) error
	CreateBatch(ctx context.Context, items []T) error
	Delete(ctx context.Context, item *T) error
	Save(ctx context.Context, item *T) error
	UpdateEach(ctx context.Context, filter Filter, apply func(item *T) bool) (int, error)
}

type gormRepository[T any] struct {
	db *gorm.DB

	schemaOnce sync.Once
	schema     *schema.Schema
	schemaErr  error
}

// New constructs a GORM-backed repository for T.
func New[T any](db *gorm.DB) Repository[T] {
	return &gormRepository[T]{db: db}
}

func (r *gormRepository[T]) All(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormRepository[T]) FirstBy(ctx context.Context, filter Filter) (T, error) {
	var item T
	conditions, err := r.conditions(filter)
	if err != nil {
		return item, err
	}

	if err := r.db.WithContext(ctx).Where(conditions).First(&item).Error; err != nil {
		return item, err
	}
	return item, nil
}

func (r *gormRepository[T]) FindBy(ctx context.Context, filter Filter) ([]T, error) {
	conditions, err := r.conditions(filter)
	if err != nil {
		return nil, err
	}

	var items []T
	if err := r.db.WithContext(ctx).Where(conditions).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormRepository[T]) FindWhere(ctx context.Context, clause string, args ...any) ([]T, error) {
	if strings.TrimSpace(clause) == "" {
		return nil, fmt.Errorf("filter clause must not be empty")
	}

	var items []T
	if err := r.db.WithContext(ctx).Where(clause, args...).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormRepository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormRepository[T]) CreateBatch(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
}

func (r *gormRepository[T]) Delete(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Delete(item).Error
}

func (r *gormRepository[T]) Save(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// UpdateEach loads every row matching filter, applies the callback and saves
// the rows it reports as changed, all inside one transaction. It returns the
// number of matched rows and gorm.ErrRecordNotFound when nothing matched.
func (r *gormRepository[T]) UpdateEach(ctx context.Context, filter Filter, apply func(item *T) bool) (int, error) {
	conditions, err := r.conditions(filter)
	if err != nil {
		return 0, err
	}

	matched := 0
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []T
		if err := tx.Where(conditions).Order("id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return gorm.ErrRecordNotFound
		}

		matched = len(items)
		for i := range items {
			if !apply(&items[i]) {
				continue
			}
			if err := tx.Save(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return matched, nil
}

// conditions translates a filter into column conditions, rejecting unknown or
// hidden fields and converting string values to the column's Go type.
func (r *gormRepository[T]) conditions(filter Filter) (map[string]interface{}, error) {
	sch, err := r.modelSchema()
	if err != nil {
		return nil, err
	}

	conditions := make(map[string]interface{}, len(filter))
	for key, value := range filter {
		field := sch.LookUpField(key)
		if field == nil || field.DBName == "" || field.Tag.Get("json") == "-" {
			return nil, fmt.Errorf("%w %q for %s", ErrUnknownField, key, sch.Name)
		}

		converted, err := coerceValue(field, value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for field %q: %w", key, err)
		}
		conditions[field.DBName] = converted
	}

	return conditions, nil
}

func (r *gormRepository[T]) modelSchema() (*schema.Schema, error) {
	r.schemaOnce.Do(func() {
		r.schema, r.schemaErr = schema.Parse(new(T), &sync.Map{}, r.db.NamingStrategy)
	})
	return r.schema, r.schemaErr
}

var timeType = reflect.TypeOf(time.Time{})

func coerceValue(field *schema.Field, value any) (any, error) {
	raw, ok := value.(string)
	if !ok {
		return value, nil
	}

	fieldType := field.IndirectFieldType
	if fieldType == timeType {
		return time.Parse(time.RFC3339, raw)
	}

	switch fieldType.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseUint(raw, 10, 64)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.ParseInt(raw, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(raw, 64)
	case reflect.Bool:
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}
