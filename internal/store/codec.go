package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/mitchellh/mapstructure"
)

// ISOLayout 与浏览器 Date.prototype.toISOString 的输出格式一致
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Schema 显式列出需要按日期处理的字段名。
// 反序列化时只有这些字段下的字符串会被还原为 time.Time，其余字段原样保留，
// 即使它们的值看起来像日期。
type Schema struct {
	DateFields []string
	// Aliases 把旧文档中的字段名映射到当前字段名，只在反序列化时生效
	Aliases map[string]string
}

var DefaultSchema = Schema{
	DateFields: []string{"start_time", "end_time", "created_at", "updated_at"},
	Aliases: map[string]string{
		// 旧版前端创建的子日程使用驼峰命名
		"mainSchedule": "main_schedule",
	},
}

func (s Schema) IsDateField(key string) bool {
	return slices.Contains(s.DateFields, key)
}

// Encode 将 v 序列化为 JSON，日期字段统一输出为 UTC 毫秒精度的 ISO-8601 字符串
func (s Schema) Encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	tree, err := decodeTree(raw)
	if err != nil {
		return nil, err
	}

	tree, err = s.walk(tree, "", func(key, value string) (any, error) {
		t, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			// 不是 time.Time 编码出的值，原样保留
			return value, nil
		}
		return FormatISO(t), nil
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(tree)
}

// Decode 先把 JSON 解析为通用的树结构，按字段名还原日期，再映射到 out 上。
// out 可以是结构体指针，也可以是 *map[string]any。
func (s Schema) Decode(data []byte, out any) error {
	tree, err := decodeTree(data)
	if err != nil {
		return err
	}

	s.renameAliases(tree)

	tree, err = s.walk(tree, "", func(key, value string) (any, error) {
		t, err := ParseISO(value)
		if err != nil {
			return nil, fmt.Errorf("字段 %s 的日期格式错误: %w", key, err)
		}
		return t, nil
	})
	if err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(tree)
}

// walk 递归遍历树，遇到日期字段下的字符串时交给 fn 处理
func (s Schema) walk(node any, key string, fn func(key, value string) (any, error)) (any, error) {
	switch v := node.(type) {
	case map[string]any:
		for k, child := range v {
			if str, ok := child.(string); ok && s.IsDateField(k) {
				replaced, err := fn(k, str)
				if err != nil {
					return nil, err
				}
				v[k] = replaced
				continue
			}

			replaced, err := s.walk(child, k, fn)
			if err != nil {
				return nil, err
			}
			v[k] = replaced
		}
		return v, nil
	case []any:
		for i, child := range v {
			replaced, err := s.walk(child, key, fn)
			if err != nil {
				return nil, err
			}
			v[i] = replaced
		}
		return v, nil
	default:
		return node, nil
	}
}

// renameAliases 递归地把别名字段改为当前字段名，两者同时存在时以当前字段为准
func (s Schema) renameAliases(node any) {
	switch v := node.(type) {
	case map[string]any:
		for alias, name := range s.Aliases {
			value, ok := v[alias]
			if !ok {
				continue
			}
			delete(v, alias)
			if _, exists := v[name]; !exists {
				v[name] = value
			}
		}
		for _, child := range v {
			s.renameAliases(child)
		}
	case []any:
		for _, child := range v {
			s.renameAliases(child)
		}
	}
}

func decodeTree(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return nil, err
	}

	return tree, nil
}

func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

func ParseISO(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
