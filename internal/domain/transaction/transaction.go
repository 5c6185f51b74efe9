package transaction

import (
	"fmt"

	"github.com/probiller/purchase-gateway/internal/domain/value"
)

// State of one biller attempt as translated by the transaction execution
// collaborator.
type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateDeclined State = "declined"
	StateAborted  State = "aborted"
)

var knownStates = map[State]bool{
	StatePending:  true,
	StateApproved: true,
	StateDeclined: true,
	StateAborted:  true,
}

// ParseState rejects transaction states outside the known set.
func ParseState(s string) (State, error) {
	st := State(s)
	if !knownStates[st] {
		return "", fmt.Errorf("unknown transaction state %q", s)
	}
	return st, nil
}

// ThreeDMetadata carries the 3DS and redirect artefacts a biller attempt can
// produce. Versions: 0 means no 3DS, 1 is ACS/PAReq, 2 is device-collection
// plus step-up.
type ThreeDMetadata struct {
	Acs                 string
	Pareq               string
	RedirectURL         string
	DeviceCollectionURL string
	DeviceCollectionJWT string
	StepUpURL           string
	StepUpJWT           string
	ThreeDVersion       int
}

// Transaction records one attempt against one biller. Attempts are created
// once and appended to their item's ledger, never deleted.
type Transaction struct {
	transactionID value.TransactionID
	state         State
	billerName    string
	newCCUsed     bool
	isNsf         bool
	threeD        ThreeDMetadata
}

// NewPending opens an attempt before the biller call has produced an id.
func NewPending(billerName string) *Transaction {
	return &Transaction{state: StatePending, billerName: billerName, newCCUsed: true}
}

// New records a completed attempt as translated from a biller response.
func New(id value.TransactionID, state State, billerName string, newCCUsed, isNsf bool) *Transaction {
	return &Transaction{
		transactionID: id,
		state:         state,
		billerName:    billerName,
		newCCUsed:     newCCUsed,
		isNsf:         isNsf,
	}
}

func (t *Transaction) TransactionID() value.TransactionID { return t.transactionID }
func (t *Transaction) State() State                       { return t.state }
func (t *Transaction) BillerName() string                 { return t.billerName }
func (t *Transaction) NewCCUsed() bool                    { return t.newCCUsed }
func (t *Transaction) IsNsf() bool                        { return t.isNsf }
func (t *Transaction) ThreeD() ThreeDMetadata             { return t.threeD }

func (t *Transaction) IsApproved() bool { return t.state == StateApproved }
func (t *Transaction) IsPending() bool  { return t.state == StatePending }
func (t *Transaction) IsDeclined() bool { return t.state == StateDeclined }
func (t *Transaction) IsAborted() bool  { return t.state == StateAborted }

// IsNsfDeclined distinguishes the terminal non-sufficient-funds outcome that
// stops cascade retries.
func (t *Transaction) IsNsfDeclined() bool { return t.state == StateDeclined && t.isNsf }

func (t *Transaction) SetThreeD(meta ThreeDMetadata) error {
	switch meta.ThreeDVersion {
	case 0, 1, 2:
	default:
		return fmt.Errorf("unsupported threeD version %d", meta.ThreeDVersion)
	}
	t.threeD = meta
	return nil
}

// AssignID attaches the biller-issued transaction id once known.
func (t *Transaction) AssignID(id value.TransactionID) { t.transactionID = id }

func (t *Transaction) SetState(s State) { t.state = s }
