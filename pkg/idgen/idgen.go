// Package idgen 提供Snowflake ID生成的便捷入口
//
// ID结构（高位到低位）：符号位 | 时间戳(相对Epoch的毫秒数) | 数据中心ID(3位) | 工作机器ID(5位) | 序列号(8位)
//
// 同一(workerID, dataCenterID)在部署内必须唯一，分配工作由调用方负责。
// 需要多个生成器时使用registry包，避免为同一身份创建多个实例。
package idgen

import (
	"katydid-common-idgen/pkg/idgen/core"
	"katydid-common-idgen/pkg/idgen/domain"
	"katydid-common-idgen/pkg/idgen/registry"
	"katydid-common-idgen/pkg/idgen/snowflake"
)

// ID Snowflake ID值类型
type ID = domain.ID

// NewGenerator 创建独立的生成器，调用方自行保证同一身份只有一个实例
func NewGenerator(workerID, dataCenterID int64, opts ...snowflake.Option) (*snowflake.Generator, error) {
	return snowflake.New(workerID, dataCenterID, opts...)
}

// Next 使用进程级默认注册表生成ID
func Next(workerID, dataCenterID int64) (ID, error) {
	id, err := registry.Next(workerID, dataCenterID)
	if err != nil {
		return 0, err
	}
	return ID(id), nil
}

// Parse 从字符串解析并拆解ID
func Parse(s string) (*core.IDInfo, error) {
	id, err := domain.ParseID(s)
	if err != nil {
		return nil, err
	}
	return id.Info()
}
