package product

import (
	"sort"
	"strings"
)

// 可更新字段白名单
// stock_quantity不在其中:库存只能通过库存调整接口修改,保证每次变更都有台账记录
const (
	FieldName          = "name"
	FieldBrand         = "brand"
	FieldPrice         = "price"
	FieldCostPrice     = "cost_price"
	FieldMinStockLevel = "min_stock_level"
	FieldMaxStockLevel = "max_stock_level"
	FieldIsActive      = "is_active"
)

var allowedFields = map[string]struct{}{
	FieldName:          {},
	FieldBrand:         {},
	FieldPrice:         {},
	FieldCostPrice:     {},
	FieldMinStockLevel: {},
	FieldMaxStockLevel: {},
	FieldIsActive:      {},
}

// AllowedFields 返回白名单(排序后,用于错误提示)
func AllowedFields() []string {
	fields := make([]string, 0, len(allowedFields))
	for f := range allowedFields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// CheckAllowed 校验请求中出现的字段名都在白名单内
func CheckAllowed(fields []string) error {
	var rejected []string
	for _, f := range fields {
		if _, ok := allowedFields[f]; !ok {
			rejected = append(rejected, f)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return ErrFieldNotAllowed.WithField("fields", strings.Join(rejected, ","))
	}
	return nil
}

// UpdateRequest 商品更新请求
// 指针字段:nil表示"未提供",与零值区分(如把is_active改为false)
type UpdateRequest struct {
	Name          *string
	Brand         *string
	Price         *int64
	CostPrice     *int64
	MinStockLevel *int
	MaxStockLevel *int
	IsActive      *bool
}

// Changes 校验请求并转换为列名→新值
// current用于校验上下限组合(只改一边时与另一边的现值比较)
func (r UpdateRequest) Changes(current *Product) (map[string]interface{}, error) {
	changes := make(map[string]interface{})

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		changes[FieldName] = name
	}
	if r.Brand != nil {
		changes[FieldBrand] = strings.TrimSpace(*r.Brand)
	}
	if r.Price != nil {
		if *r.Price <= 0 {
			return nil, ErrInvalidPrice
		}
		changes[FieldPrice] = *r.Price
	}
	if r.CostPrice != nil {
		if *r.CostPrice < 0 {
			return nil, ErrInvalidPrice.WithField("field", FieldCostPrice)
		}
		changes[FieldCostPrice] = *r.CostPrice
	}

	minLevel, maxLevel := current.MinStockLevel, current.MaxStockLevel
	if r.MinStockLevel != nil {
		minLevel = *r.MinStockLevel
		changes[FieldMinStockLevel] = minLevel
	}
	if r.MaxStockLevel != nil {
		maxLevel = *r.MaxStockLevel
		changes[FieldMaxStockLevel] = maxLevel
	}
	if r.MinStockLevel != nil || r.MaxStockLevel != nil {
		if minLevel < 0 || (maxLevel > 0 && maxLevel < minLevel) {
			return nil, ErrInvalidStockLevel
		}
	}

	if r.IsActive != nil {
		changes[FieldIsActive] = *r.IsActive
	}

	if len(changes) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	return changes, nil
}
