package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// ToInt 將數值或十進位數字字串轉為整數，小數無條件捨去。
// 字串一律以十進位解析，"0300" 為 300，"0x10" 視為無法解析。
func ToInt(v any) (int, error) {
	var (
		f   float64
		err error
	)

	switch val := v.(type) {
	case nil, bool:
		return 0, fmt.Errorf("not a number: %v", v)
	case json.Number:
		if i, ierr := val.Int64(); ierr == nil {
			return int(i), nil
		}
		f, err = val.Float64()
	case string:
		f, err = cast.ToFloat64E(strings.TrimSpace(val))
	default:
		f, err = cast.ToFloat64E(val)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, fmt.Errorf("not a finite number: %v", v)
	}
	return int(f), nil
}
