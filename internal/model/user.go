package model

// Student represents a row of the `students` table.  The UUID in ID is
// the principal carried by session tokens and the ownership key of every
// reservation row.
//
// Fields:
//  ID           – UUID primary key.
//  StudentIDNo  – university student number.
//  Email        – unique login address.
//  PasswordHash – bcrypt hash of the password.
type Student struct {
    ID           string // students.id
    StudentIDNo  string // students.student_id_no
    Email        string // students.email
    PasswordHash string // students.password_hash
}

// Balance is a prepaid balance row (cafeteria_balances or
// sports_balances).  Amount keeps the DECIMAL text to avoid float rounding.
type Balance struct {
    ID        uint64 `json:"id"`
    StudentID string `json:"student_id"`
    Amount    string `json:"balance"`
}
