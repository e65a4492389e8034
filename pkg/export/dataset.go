package export

import (
	"fmt"
	"strconv"
)

// Dataset defines tabular export content. Fields fixes the column order;
// rows may omit keys, which render as empty values.
type Dataset struct {
	Fields []string
	Rows   []map[string]interface{}
}

// Serializer renders a dataset into one downloadable encoding. Each encoding
// owns its edge cases (quoting, date formatting) independently.
type Serializer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
