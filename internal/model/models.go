package model

// ID identifies a user by their student ID. It is assigned at registration
// and never changes.
type ID = int64

// LogID identifies one attendance session.
type LogID = int64

// Millis is a timestamp in milliseconds since the Unix epoch. All times in
// the store are kept in this form.
type Millis = int64

type User struct {
	StudentID ID     `json:"studentId" db:"student_id"`
	CreatedAt Millis `json:"createdAt" db:"created_at"`
	UpdatedAt Millis `json:"updatedAt" db:"updated_at"`

	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`

	// Tags is the authoritative role/training state. The per-color boolean
	// columns in the store mirror it and are written together with it.
	Tags Tags `json:"tags" db:"tags"`

	WhiteTag  bool `json:"whiteTag" db:"white_tag"`
	BlueTag   bool `json:"blueTag" db:"blue_tag"`
	GreenTag  bool `json:"greenTag" db:"green_tag"`
	OrangeTag bool `json:"orangeTag" db:"orange_tag"`

	LoggedIn bool `json:"loggedIn" db:"logged_in"`

	Major  *string `json:"major,omitempty" db:"major"`
	CardID *string `json:"cardId,omitempty" db:"card_id"`
	Photo  *string `json:"photo,omitempty" db:"photo"`
}

type LogEntry struct {
	LogID LogID `json:"logId" db:"log_id"`

	User ID `json:"studentId" db:"user"`

	TimeIn  Millis  `json:"timeIn" db:"time_in"`
	TimeOut *Millis `json:"timeOut" db:"time_out"`

	// Supervising is set at check-in time when the session was opened in a
	// supervisory capacity. It never changes after the session opens.
	Supervising *bool `json:"supervising,omitempty" db:"supervising"`
}

// Open reports whether the session has not been checked out yet.
func (l LogEntry) Open() bool {
	return l.TimeOut == nil
}

type Credential struct {
	StudentID    ID     `json:"studentId" db:"student_id"`
	CreatedAt    Millis `json:"-" db:"created_at"`
	UpdatedAt    Millis `json:"-" db:"updated_at"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// Presence partitions everyone with an open session into three disjoint
// buckets. A user holding both the admin and supervisor tags counts as an
// admin only.
type Presence struct {
	Admins      []User `json:"admins"`
	Supervisors []User `json:"supervisors"`
	Students    []User `json:"students"`
}
