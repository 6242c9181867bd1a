package tools

import (
	"fmt"
	"strconv"
)

// ToString extracts a string value from a potential complex object (e.g. {"value":"..."})
// 有些模型會把參數包一層 {"type": "...", "value": "..."}，這裡做防呆
func ToString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case map[string]interface{}:
		if inner, ok := val["value"]; ok {
			return fmt.Sprintf("%v", inner)
		}
	}
	return fmt.Sprintf("%v", v)
}

// ToInt extracts an integer from JSON-decoded values (float64, int or wrapped object)
func ToInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		// 模型偶爾把數字當字串給
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	case map[string]interface{}:
		if inner, ok := val["value"]; ok {
			return ToInt(inner)
		}
	}
	return 0
}
