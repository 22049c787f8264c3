package models

// All lists every model for AutoMigrate, parents first.
func All() []any {
	return []any{
		&Setting{},
		&Role{},
		&Permission{},
		&RolePermission{},
		&User{},
		&ZoneTemplate{},
		&ZoneTemplateRecord{},
		&Zone{},
		&ZoneOwner{},
	}
}
