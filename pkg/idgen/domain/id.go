package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"katydid-common-idgen/pkg/idgen/core"
	"katydid-common-idgen/pkg/idgen/snowflake"
)

const (
	// maxSafeInteger JavaScript最大安全整数 (2^53 - 1)
	maxSafeInteger = 9007199254740991

	// maxParseIDStringLength 解析ID字符串的最大长度
	// 说明：66个字符足以表示带0b前缀的最大int64
	maxParseIDStringLength = 66
)

// ID Snowflake ID值类型
// JSON中以十进制字符串表示，数据库中以BIGINT存储
type ID int64

// ParseID 从字符串解析ID
// 说明：支持多种进制格式（十进制、十六进制0x、二进制0b）
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return 0, fmt.Errorf("%w: ID string cannot be empty", core.ErrInvalidSnowflakeID)
	}
	if len(s) > maxParseIDStringLength {
		return 0, fmt.Errorf("%w: ID string too long: max %d characters, got %d",
			core.ErrInvalidSnowflakeID, maxParseIDStringLength, len(s))
	}

	var val int64
	var err error

	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		val, err = strconv.ParseInt(s[2:], 16, 64)
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		val, err = strconv.ParseInt(s[2:], 2, 64)
	default:
		val, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrInvalidSnowflakeID, err)
	}

	if val < 0 {
		return 0, fmt.Errorf("%w: must be non-negative, got %d", core.ErrInvalidSnowflakeID, val)
	}

	return ID(val), nil
}

// Int64 转换为int64类型
func (id ID) Int64() int64 {
	return int64(id)
}

// String 转换为十进制字符串
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Hex 转换为十六进制字符串（带0x前缀）
func (id ID) Hex() string {
	return fmt.Sprintf("0x%x", int64(id))
}

// Binary 转换为二进制字符串（带0b前缀）
func (id ID) Binary() string {
	return fmt.Sprintf("0b%b", int64(id))
}

// IsZero 检查ID是否为零值
func (id ID) IsZero() bool {
	return id == 0
}

// IsSafeForJavaScript 检查ID是否在JavaScript安全整数范围内
func (id ID) IsSafeForJavaScript() bool {
	return id >= 0 && id <= maxSafeInteger
}

// Validate 验证ID的有效性
func (id ID) Validate() error {
	return snowflake.ValidateID(int64(id))
}

// Info 验证并解析ID各组成部分
func (id ID) Info() (*core.IDInfo, error) {
	return snowflake.NewParser().Parse(int64(id))
}

// Time 提取生成时间，无效ID返回零值时间
func (id ID) Time() time.Time {
	return snowflake.NewParser().ExtractTime(int64(id))
}

// MarshalJSON 序列化为字符串，避免JavaScript精度丢失
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON 支持从字符串或数字反序列化，null时保持原值
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty JSON data", core.ErrInvalidSnowflakeID)
	}
	if string(data) == "null" {
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		parsed, err := ParseID(str)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var num int64
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("%w: expected string or number, got %s", core.ErrInvalidSnowflakeID, string(data))
	}
	if num < 0 {
		return fmt.Errorf("%w: must be non-negative, got %d", core.ErrInvalidSnowflakeID, num)
	}
	*id = ID(num)
	return nil
}

// Value 实现driver.Valuer接口
func (id ID) Value() (driver.Value, error) {
	return int64(id), nil
}

// Scan 实现sql.Scanner接口
func (id *ID) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*id = 0
	case int64:
		*id = ID(v)
	case []byte:
		parsed, err := ParseID(string(v))
		if err != nil {
			return err
		}
		*id = parsed
	case string:
		parsed, err := ParseID(v)
		if err != nil {
			return err
		}
		*id = parsed
	default:
		return fmt.Errorf("%w: cannot scan %T into ID", core.ErrInvalidSnowflakeID, value)
	}
	return nil
}
