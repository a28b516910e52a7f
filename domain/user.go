package domain

type User struct {
	ID        string  `db:"id" json:"id"`
	Username  string  `db:"username" json:"username"`
	Password  string  `db:"password" json:"password,omitempty"`
	Role      string  `db:"role" json:"role"`
	Name      string  `db:"name" json:"name"`
	ShareCode *string `db:"share_code" json:"share_code,omitempty"`
	CreatedAt string  `db:"created_at" json:"created_at,omitempty"`
}
