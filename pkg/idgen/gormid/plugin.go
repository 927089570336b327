// Package gormid 为gorm模型自动分配Snowflake主键
package gormid

import (
	"reflect"

	"gorm.io/gorm"

	"katydid-common-idgen/pkg/idgen/core"
)

const (
	pluginName   = "snowflake:id"
	callbackName = "snowflake:assign_id"
)

// Plugin gorm插件，在gorm:create之前为零值的int64主键赋值
type Plugin struct {
	generator core.IIDGenerator
}

// New 创建插件
func New(generator core.IIDGenerator) *Plugin {
	return &Plugin{generator: generator}
}

// Name 实现gorm.Plugin接口
func (p *Plugin) Name() string {
	return pluginName
}

// Initialize 实现gorm.Plugin接口
func (p *Plugin) Initialize(db *gorm.DB) error {
	return db.Callback().Create().Before("gorm:create").Register(callbackName, p.assign)
}

// assign 为当前语句中的所有记录分配ID，生成失败时终止本次创建
func (p *Plugin) assign(db *gorm.DB) {
	if db.Error != nil || db.Statement.Schema == nil {
		return
	}

	field := db.Statement.Schema.PrioritizedPrimaryField
	if field == nil || field.FieldType.Kind() != reflect.Int64 {
		return
	}

	ctx := db.Statement.Context
	rv := db.Statement.ReflectValue

	setOne := func(v reflect.Value) {
		if _, zero := field.ValueOf(ctx, v); !zero {
			return
		}
		id, err := p.generator.Next()
		if err != nil {
			_ = db.AddError(err)
			return
		}
		if err := field.Set(ctx, v, id); err != nil {
			_ = db.AddError(err)
		}
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len() && db.Error == nil; i++ {
			setOne(reflect.Indirect(rv.Index(i)))
		}
	case reflect.Struct:
		setOne(rv)
	}
}
