package coffee

import (
	"fmt"
	"strings"
	"time"

	"voicedesk/app/service/journal"

	"github.com/google/uuid"
)

const StatusReceived = "received"

// Receipt is a saved order as written to its file.
type Receipt struct {
	DrinkType string   `json:"drinkType"`
	Size      string   `json:"size"`
	Milk      string   `json:"milk"`
	Extras    []string `json:"extras"`
	Name      string   `json:"name"`
	Timestamp string   `json:"timestamp"`
	Status    string   `json:"status"`
}

type Store struct {
	dir *journal.EntryDir[Receipt]
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{
		dir: journal.NewEntryDir[Receipt](dir),
		now: time.Now,
	}
}

func (s *Store) Dir() string {
	return s.dir.Dir()
}

// Save writes the order to a new file named after the current time and returns the
// receipt and the file path.
func (s *Store) Save(o Order) (Receipt, string, error) {
	now := s.now()

	receipt := Receipt{
		DrinkType: o.DrinkType,
		Size:      o.Size,
		Milk:      o.Milk,
		Extras:    append([]string{}, o.Extras...),
		Name:      o.Name,
		Timestamp: now.Format(time.RFC3339),
		Status:    StatusReceived,
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	name := fmt.Sprintf("order_%s_%s.json", now.Format("20060102_150405"), suffix)

	path, err := s.dir.Write(name, receipt)
	if err != nil {
		return Receipt{}, "", err
	}

	return receipt, path, nil
}

// Orders returns every saved order, oldest first.
func (s *Store) Orders() ([]Receipt, error) {
	return s.dir.List()
}
