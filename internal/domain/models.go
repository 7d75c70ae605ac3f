// internal/domain/models.go
package domain

import "time"

// User is a row of the user table. Password holds the stored hash and is never serialized.
type User struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"-"`
	RoleID   *int64 `db:"role_id" json:"role_id"`
}

// Domain is a row of the domain table. Every field except ID and DomainName may be unknown
// when the row is first created and filled in later.
type Domain struct {
	ID           string  `db:"id" json:"id"`
	DomainName   string  `db:"domain_name" json:"domain_name"`
	DomainStatus *string `db:"domain_status" json:"domain_status"`
	DomainAge    *int64  `db:"domain_age" json:"domain_age"`
	OrderNo      *int64  `db:"order_no" json:"order_no"`
	Language     *string `db:"language" json:"language"`
	Title        *string `db:"title" json:"title"`
	Score        *int64  `db:"score" json:"score"`
	DNS          *string `db:"dns" json:"dns"`

	// WHOIS registration
	RegistrarName    *string    `db:"registrar_name" json:"registrar_name"`
	RegistrarAddress *string    `db:"registrar_address" json:"registrar_address"`
	RegistrarBy      *string    `db:"registrar_by" json:"registrar_by"`
	RegistrarAt      *time.Time `db:"registrar_at" json:"registrar_at"`
	ExpireAt         *time.Time `db:"expire_at" json:"expire_at"`
	Email            *string    `db:"email" json:"email"`

	// ICP filing
	RecordName     *string    `db:"record_name" json:"record_name"`
	RecordNo       *string    `db:"record_no" json:"record_no"`
	RecordStatus   *string    `db:"record_status" json:"record_status"`
	RecordAt       *time.Time `db:"record_at" json:"record_at"`
	RecordMainBody *string    `db:"record_main_body" json:"record_main_body"`
	RecordType     *string    `db:"record_type" json:"record_type"`
}
