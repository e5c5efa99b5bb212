package importer

import (
	"fmt"

	"reviewdash/worklog"
)

type Mapper interface {
	Name() string
	RequiredColumns() []Column
	Map(record Record, sourceFile string) (*worklog.Entry, bool, error)
}

func SupportedMapperNames() []string {
	return []string{"review"}
}

func MapperByName(name string, dateColumn string) (Mapper, error) {
	switch normalizeHeader(name) {
	case "", "review":
		return NewReviewMapper(dateColumn), nil
	default:
		return nil, fmt.Errorf("unsupported mapper: %s", name)
	}
}
