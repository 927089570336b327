package registry

import "sync"

var (
	// defaultRegistry 进程级默认注册表，首次使用时创建，进程生命周期内有效
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default 获取进程级默认注册表
// 说明：生成器不持有外部资源，因此无需显式关闭
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// Next 使用默认注册表生成ID
func Next(workerID, dataCenterID int64) (int64, error) {
	return Default().Next(workerID, dataCenterID)
}
