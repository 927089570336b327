package registry_test

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"katydid-common-idgen/pkg/idgen/core"
	"katydid-common-idgen/pkg/idgen/registry"
	"katydid-common-idgen/pkg/idgen/snowflake"
)

// ============================================================================
// 1. Registry基础功能测试
// ============================================================================

// TestRegistry_GetOrCreate 测试获取或创建生成器
func TestRegistry_GetOrCreate(t *testing.T) {
	r := registry.New(registry.WithLogger(zap.NewNop()))

	t.Run("创建新生成器", func(t *testing.T) {
		gen, err := r.GetOrCreate(1, 1)
		if err != nil {
			t.Fatalf("GetOrCreate() error = %v", err)
		}
		if gen.WorkerID() != 1 || gen.DataCenterID() != 1 {
			t.Errorf("GetOrCreate() 返回了错误的生成器: worker=%d datacenter=%d",
				gen.WorkerID(), gen.DataCenterID())
		}
	})

	t.Run("获取已存在生成器", func(t *testing.T) {
		gen1, err := r.GetOrCreate(2, 3)
		if err != nil {
			t.Fatalf("GetOrCreate() error = %v", err)
		}
		gen2, err := r.GetOrCreate(2, 3)
		if err != nil {
			t.Fatalf("GetOrCreate() error = %v", err)
		}
		if gen1 != gen2 {
			t.Error("同一键应返回同一生成器实例")
		}
	})

	t.Run("不同键返回不同实例", func(t *testing.T) {
		gen1, _ := r.GetOrCreate(4, 1)
		gen2, _ := r.GetOrCreate(1, 4)
		if gen1 == gen2 {
			t.Error("不同键不应共享生成器")
		}
	})

	t.Run("无效参数", func(t *testing.T) {
		before := r.Count()
		_, err := r.GetOrCreate(32, 0)
		if !errors.Is(err, core.ErrInvalidArgument) {
			t.Errorf("GetOrCreate() error = %v, 期望 ErrInvalidArgument", err)
		}
		_, err = r.GetOrCreate(0, 8)
		if !errors.Is(err, core.ErrInvalidDataCenterID) {
			t.Errorf("GetOrCreate() error = %v, 期望 ErrInvalidDataCenterID", err)
		}
		if r.Count() != before {
			t.Errorf("创建失败时不应安装生成器, Count() = %d, 期望 %d", r.Count(), before)
		}
	})
}

// TestRegistry_Get 测试获取生成器
func TestRegistry_Get(t *testing.T) {
	r := registry.New()

	if _, err := r.Get(1, 1); !errors.Is(err, core.ErrGeneratorNotFound) {
		t.Errorf("Get() error = %v, 期望 ErrGeneratorNotFound", err)
	}
	if r.Has(1, 1) {
		t.Error("Has() 应返回false")
	}

	created, err := r.GetOrCreate(1, 1)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	got, err := r.Get(1, 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != created {
		t.Error("Get() 应返回已安装的实例")
	}
	if !r.Has(1, 1) {
		t.Error("Has() 应返回true")
	}
}

// TestRegistry_Keys 测试键列表与遍历
func TestRegistry_Keys(t *testing.T) {
	r := registry.New()
	for _, k := range []registry.Key{{WorkerID: 3, DataCenterID: 1}, {WorkerID: 1, DataCenterID: 1}, {WorkerID: 0, DataCenterID: 0}} {
		if _, err := r.GetOrCreate(k.WorkerID, k.DataCenterID); err != nil {
			t.Fatalf("GetOrCreate() error = %v", err)
		}
	}

	want := []registry.Key{{WorkerID: 0, DataCenterID: 0}, {WorkerID: 1, DataCenterID: 1}, {WorkerID: 3, DataCenterID: 1}}
	keys := r.Keys()
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, 期望 %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %v, 期望 %v", i, keys[i], want[i])
		}
	}

	var visited int
	r.Each(func(key registry.Key, gen *snowflake.Generator) {
		if gen.WorkerID() != key.WorkerID || gen.DataCenterID() != key.DataCenterID {
			t.Errorf("Each() 键与生成器不匹配: %s", key)
		}
		visited++
	})
	if visited != 3 {
		t.Errorf("Each() 访问了 %d 个生成器, 期望 3", visited)
	}

	if got := (registry.Key{WorkerID: 5, DataCenterID: 2}).String(); got != "worker=5,datacenter=2" {
		t.Errorf("Key.String() = %q", got)
	}
}

// ============================================================================
// 2. 并发测试
// ============================================================================

// TestRegistry_ConcurrentGetOrCreate 测试并发首次访问只安装一个实例
func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	r := registry.New()

	const goroutines = 64
	gens := make([]*snowflake.Generator, goroutines)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			gen, err := r.GetOrCreate(9, 1)
			if err != nil {
				t.Errorf("GetOrCreate() error = %v", err)
				return
			}
			gens[i] = gen
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if gens[i] != gens[0] {
			t.Fatalf("第%d个协程得到了不同的生成器实例", i)
		}
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, 期望 1", r.Count())
	}
}

// TestRegistry_ConcurrentNext 测试通过注册表并发生成ID
func TestRegistry_ConcurrentNext(t *testing.T) {
	r := registry.New()

	const goroutines = 8
	const perGoroutine = 1000

	var mu sync.Mutex
	seen := make(map[int64]struct{}, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last int64
			for j := 0; j < perGoroutine; j++ {
				id, err := r.Next(3, 2)
				if err != nil {
					t.Errorf("Next() error = %v", err)
					return
				}
				// 单个协程观察到的ID也必须递增
				if id <= last {
					t.Errorf("ID未递增: %d <= %d", id, last)
				}
				last = id

				mu.Lock()
				if _, dup := seen[id]; dup {
					t.Errorf("发现重复ID: %d", id)
				}
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != goroutines*perGoroutine {
		t.Errorf("生成了 %d 个唯一ID, 期望 %d", len(seen), goroutines*perGoroutine)
	}
}

// ============================================================================
// 3. 生成器选项与默认注册表
// ============================================================================

// TestRegistry_GeneratorOptions 测试注册表传递生成器选项
func TestRegistry_GeneratorOptions(t *testing.T) {
	clock := snowflake.ClockFunc(func() int64 { return snowflake.Epoch + 1000 })
	r := registry.New(registry.WithGeneratorOptions(
		snowflake.WithClock(clock),
		snowflake.WithMetrics(true),
	))

	ids, err := r.NextBatch(5, 2, 3)
	if err != nil {
		t.Fatalf("NextBatch() error = %v", err)
	}
	for i, id := range ids {
		want := snowflake.Compose(snowflake.Epoch+1000, 2, 5, int64(i))
		if id != want {
			t.Errorf("ids[%d] = %d, 期望 %d", i, id, want)
		}
	}

	gen, _ := r.Get(5, 2)
	if got := gen.Metrics()["id_count"]; got != 3 {
		t.Errorf("id_count = %d, 期望 3", got)
	}

	if _, err := r.NextBatch(32, 0, 1); !errors.Is(err, core.ErrInvalidWorkerID) {
		t.Errorf("NextBatch() error = %v, 期望 ErrInvalidWorkerID", err)
	}
}

// TestDefault 测试进程级默认注册表
func TestDefault(t *testing.T) {
	if registry.Default() != registry.Default() {
		t.Fatal("Default() 应返回同一实例")
	}

	id1, err := registry.Next(31, 7)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	id2, err := registry.Next(31, 7)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if id2 <= id1 {
		t.Errorf("Next() 未递增: %d <= %d", id2, id1)
	}

	if _, err := registry.Next(-1, 0); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("Next() error = %v, 期望 ErrInvalidArgument", err)
	}
}

func BenchmarkRegistry_Next(b *testing.B) {
	r := registry.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Next(1, 1)
	}
}
