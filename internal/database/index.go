package database

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSpec mô tả một index đọc được từ tag của model.
//
// Cú pháp tag (các cấu hình cách nhau bởi ';', thuộc tính bởi ','):
//
//	index:"unique"                 => <field>_unique
//	index:"unique,sparse"          => <field>_unique (sparse)
//	index:"single:1" / "single:-1" => <field>_single
//	index:"text"                   => <field>_text
//	index:"ttl:3600"               => <field>_ttl
//	index:"compound:<name>"        => index nhiều field tên <name>, unique nếu tên chứa "_unique"
type IndexSpec struct {
	Name      string
	Keys      bson.D
	Unique    bool
	Sparse    bool
	TTLSecond *int32
}

// Model chuyển spec thành mongo.IndexModel
func (s IndexSpec) Model() mongo.IndexModel {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	if s.TTLSecond != nil {
		opts.SetExpireAfterSeconds(*s.TTLSecond)
	}
	return mongo.IndexModel{Keys: s.Keys, Options: opts}
}

// Matches so sánh spec với thông tin index hiện có (kết quả Indexes().List)
func (s IndexSpec) Matches(existing bson.M) bool {
	keys, ok := existing["key"].(bson.M)
	if !ok || len(keys) != len(s.Keys) {
		return false
	}
	for _, k := range s.Keys {
		ev, ok := keys[k.Key]
		if !ok {
			return false
		}
		if want, isInt := k.Value.(int); isInt {
			if got, ok := toInt(ev); !ok || got != want {
				return false
			}
		} else if ev != k.Value {
			return false
		}
	}

	unique, _ := existing["unique"].(bool)
	if unique != s.Unique {
		return false
	}
	sparse, _ := existing["sparse"].(bool)
	if sparse != s.Sparse {
		return false
	}
	if s.TTLSecond != nil {
		ttl, ok := toInt(existing["expireAfterSeconds"])
		if !ok || int32(ttl) != *s.TTLSecond {
			return false
		}
	}
	return true
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// parseIndexTag tách tag thành danh sách cấu hình key => value
func parseIndexTag(tag string) []map[string]string {
	var result []map[string]string
	for _, part := range strings.Split(tag, ";") {
		entry := map[string]string{}
		for _, sub := range strings.Split(part, ",") {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			if k, v, ok := strings.Cut(sub, ":"); ok {
				entry[k] = v
			} else {
				entry[sub] = ""
			}
		}
		if len(entry) > 0 {
			result = append(result, entry)
		}
	}
	return result
}

// parseOrder trả về -1 nếu giá trị là "-1", còn lại 1
func parseOrder(v string) int {
	if strings.TrimSpace(v) == "-1" {
		return -1
	}
	return 1
}

// IndexSpecsFromModel đọc tag `index` trên các field của struct model.
// Kết quả sắp theo tên để thứ tự tạo index ổn định.
func IndexSpecsFromModel(model interface{}) ([]IndexSpec, error) {
	t := reflect.TypeOf(model)
	if t == nil {
		return nil, fmt.Errorf("model is nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct, got %s", t.Kind())
	}

	var specs []IndexSpec
	compound := map[string]*IndexSpec{}
	var compoundOrder []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		bsonField := strings.Split(field.Tag.Get("bson"), ",")[0]
		if bsonField == "" || bsonField == "-" {
			continue
		}

		for _, cfg := range parseIndexTag(tag) {
			_, sparse := cfg["sparse"]

			if _, ok := cfg["text"]; ok {
				specs = append(specs, IndexSpec{Name: bsonField + "_text", Keys: bson.D{{Key: bsonField, Value: "text"}}})
			}
			if v, ok := cfg["single"]; ok {
				specs = append(specs, IndexSpec{Name: bsonField + "_single", Keys: bson.D{{Key: bsonField, Value: parseOrder(v)}}})
			}
			if _, ok := cfg["unique"]; ok {
				specs = append(specs, IndexSpec{Name: bsonField + "_unique", Keys: bson.D{{Key: bsonField, Value: 1}}, Unique: true, Sparse: sparse})
			}
			if v, ok := cfg["ttl"]; ok {
				ttl, err := strconv.Atoi(v)
				if err != nil {
					return nil, fmt.Errorf("TTL không hợp lệ cho %s: %w", bsonField, err)
				}
				ttl32 := int32(ttl)
				specs = append(specs, IndexSpec{Name: bsonField + "_ttl", Keys: bson.D{{Key: bsonField, Value: 1}}, TTLSecond: &ttl32})
			}
			if name, ok := cfg["compound"]; ok && name != "" {
				spec, exists := compound[name]
				if !exists {
					spec = &IndexSpec{Name: name, Unique: strings.Contains(name, "_unique")}
					compound[name] = spec
					compoundOrder = append(compoundOrder, name)
				}
				spec.Keys = append(spec.Keys, bson.E{Key: bsonField, Value: parseOrder(cfg["order"])})
				if sparse {
					spec.Sparse = true
				}
			}
		}
	}

	for _, name := range compoundOrder {
		specs = append(specs, *compound[name])
	}
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs, nil
}
