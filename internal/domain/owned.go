package domain

// Owned 约束带有"所属用户"字段的实体指针类型，用于通用的归属 CRUD
type Owned[T any] interface {
	*T
	GetID() string
	OwnerRef() string
	Stamp(id, owner string)
}
