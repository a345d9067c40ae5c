package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                   string          `gorm:"type:varchar(255);not null"`
	Email                  string          `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email"`
	Password               string          `gorm:"type:varchar(255);not null"`
	Role                   Role            `gorm:"type:varchar(20);not null;default:'general'"`
	AnnualLeaveEntitlement decimal.Decimal `gorm:"type:numeric(5,1);not null;default:30"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
