package claims

// Decision is an admin's answer to a pending claim
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// BulkResult reports what ApproveAll did. Skipped claims stay pending.
type BulkResult struct {
	Attempted int
	Applied   int
	Skipped   int
}
