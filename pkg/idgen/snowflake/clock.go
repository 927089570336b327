package snowflake

import "time"

// Clock 毫秒时钟，生成器通过它读取当前时间
// 说明：测试中可注入可控时钟，模拟同毫秒、序列号溢出和时钟回拨
type Clock interface {
	// NowMillis 返回自Unix纪元起的毫秒数
	NowMillis() int64
}

// ClockFunc 将普通函数适配为Clock
type ClockFunc func() int64

// NowMillis 实现Clock接口
func (f ClockFunc) NowMillis() int64 {
	return f()
}

type systemClock struct{}

func (systemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// SystemClock 系统墙上时钟
var SystemClock Clock = systemClock{}
