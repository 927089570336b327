package registry

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"katydid-common-idgen/pkg/idgen/core"
	"katydid-common-idgen/pkg/idgen/snowflake"
)

// Key 生成器的唯一标识
type Key struct {
	WorkerID     int64
	DataCenterID int64
}

// String 实现Stringer接口
func (k Key) String() string {
	return fmt.Sprintf("worker=%d,datacenter=%d", k.WorkerID, k.DataCenterID)
}

// Registry 生成器注册表
// 说明：同一Key只会存在一个生成器实例，这是ID唯一性的前提
type Registry struct {
	generators map[Key]*snowflake.Generator // 生成器映射表
	genOpts    []snowflake.Option           // 创建生成器时使用的选项
	logger     *zap.Logger
	mu         sync.RWMutex // 读写锁，保护并发访问
}

// Option 注册表可选配置
type Option func(*Registry)

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithGeneratorOptions 设置新建生成器时使用的选项（时钟、监控等）
func WithGeneratorOptions(opts ...snowflake.Option) Option {
	return func(r *Registry) {
		r.genOpts = append(r.genOpts, opts...)
	}
}

// New 创建生成器注册表
func New(opts ...Option) *Registry {
	r := &Registry{
		generators: make(map[Key]*snowflake.Generator),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreate 获取生成器，如果不存在则创建（序列号从0开始）
// 并发首次访问同一Key时只有一个实例会被安装
func (r *Registry) GetOrCreate(workerID, dataCenterID int64) (*snowflake.Generator, error) {
	key := Key{WorkerID: workerID, DataCenterID: dataCenterID}

	// 快速路径：读锁查找
	r.mu.RLock()
	generator, exists := r.generators[key]
	r.mu.RUnlock()
	if exists {
		return generator, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// 双重检查：其他协程可能已完成创建
	if generator, exists := r.generators[key]; exists {
		return generator, nil
	}

	generator, err := snowflake.New(workerID, dataCenterID, r.genOpts...)
	if err != nil {
		return nil, err
	}
	r.generators[key] = generator

	r.logger.Info("snowflake generator installed",
		zap.Int64("worker_id", workerID),
		zap.Int64("data_center_id", dataCenterID),
		zap.Int("generators", len(r.generators)))

	return generator, nil
}

// Next 使用对应生成器生成下一个ID
func (r *Registry) Next(workerID, dataCenterID int64) (int64, error) {
	generator, err := r.GetOrCreate(workerID, dataCenterID)
	if err != nil {
		return 0, err
	}
	return generator.Next()
}

// NextBatch 使用对应生成器批量生成ID
func (r *Registry) NextBatch(workerID, dataCenterID int64, n int) ([]int64, error) {
	generator, err := r.GetOrCreate(workerID, dataCenterID)
	if err != nil {
		return nil, err
	}
	return generator.NextBatch(n)
}

// Get 获取已存在的生成器
func (r *Registry) Get(workerID, dataCenterID int64) (*snowflake.Generator, error) {
	key := Key{WorkerID: workerID, DataCenterID: dataCenterID}

	r.mu.RLock()
	defer r.mu.RUnlock()

	generator, exists := r.generators[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", core.ErrGeneratorNotFound, key)
	}
	return generator, nil
}

// Has 检查生成器是否存在
func (r *Registry) Has(workerID, dataCenterID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.generators[Key{WorkerID: workerID, DataCenterID: dataCenterID}]
	return exists
}

// Count 获取生成器数量
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.generators)
}

// Keys 列出所有生成器的键（按数据中心、工作机器排序）
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	keys := make([]Key, 0, len(r.generators))
	for key := range r.generators {
		keys = append(keys, key)
	}
	r.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].DataCenterID != keys[j].DataCenterID {
			return keys[i].DataCenterID < keys[j].DataCenterID
		}
		return keys[i].WorkerID < keys[j].WorkerID
	})
	return keys
}

// Each 按Keys顺序遍历所有生成器
func (r *Registry) Each(fn func(Key, *snowflake.Generator)) {
	for _, key := range r.Keys() {
		r.mu.RLock()
		generator := r.generators[key]
		r.mu.RUnlock()
		fn(key, generator)
	}
}
