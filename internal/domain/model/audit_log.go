package model

import "time"

// スタッフ操作の種類。在庫更新、注文ステータス更新など
type AuditAction string

const (
	AuditActionUpdateStock       AuditAction = "UPDATE_STOCK"
	AuditActionUpdateProduct     AuditAction = "UPDATE_PRODUCT"
	AuditActionDeactivateProduct AuditAction = "DEACTIVATE_PRODUCT"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionDeleteOrder       AuditAction = "DELETE_ORDER"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct AuditResourceType = "product"
	AuditResourceOrder   AuditResourceType = "order"
)

// action ごとに対象の種類は1つに決まる
var auditActionResource = map[AuditAction]AuditResourceType{
	AuditActionUpdateStock:       AuditResourceProduct,
	AuditActionUpdateProduct:     AuditResourceProduct,
	AuditActionDeactivateProduct: AuditResourceProduct,
	AuditActionUpdateOrderStatus: AuditResourceOrder,
	AuditActionDeleteOrder:       AuditResourceOrder,
}

func (a AuditAction) Valid() bool {
	_, ok := auditActionResource[a]
	return ok
}

// 対象の種類。未知の action なら ""
func (a AuditAction) Resource() AuditResourceType {
	return auditActionResource[a]
}

func (t AuditResourceType) Valid() bool {
	return t == AuditResourceProduct || t == AuditResourceOrder
}

// 監査ログ（スタッフ操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	BeforeJSON   string            `gorm:"type:text" json:"before_json"`
	AfterJSON    string            `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"created_at"`
}
