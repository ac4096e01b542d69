package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber 生成订单号
// 订单号设计原则:
// 1. 全局唯一(随机部分取自UUIDv4,碰撞概率可忽略,数据库唯一索引兜底)
// 2. 可读(包含下单日期,方便客服查询)
// 3. 不可预测(防止恶意遍历)
//
// 格式: ORD-YYYYMMDD-XXXXXXXX
// 示例: ORD-20240315-9F3A1C7B
func GenerateOrderNumber(now time.Time) string {
	id := uuid.New()
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
