package storage

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/pixil98/go-testutil"
)

// testSpec is a simple ValidatingSpec for testing
type testSpec struct {
	valid bool
}

func (s *testSpec) Validate() error {
	if !s.valid {
		return fmt.Errorf("spec is invalid")
	}
	return nil
}

// testStore is a fixed in-memory Storer for reference resolution tests
type testStore struct {
	records map[string]*testSpec
}

func (s *testStore) Get(id string) *testSpec      { return s.records[id] }
func (s *testStore) GetAll() map[string]*testSpec { return s.records }

func TestAsset_Validate(t *testing.T) {
	tests := map[string]struct {
		asset  Asset[*testSpec]
		expErr string
	}{
		"valid asset": {
			asset: Asset[*testSpec]{
				Version:    1,
				Identifier: "iron-ore",
				Spec:       &testSpec{valid: true},
			},
		},
		"version not set": {
			asset: Asset[*testSpec]{
				Identifier: "iron-ore",
				Spec:       &testSpec{valid: true},
			},
			expErr: "version must be set",
		},
		"empty identifier": {
			asset: Asset[*testSpec]{
				Version: 1,
				Spec:    &testSpec{valid: true},
			},
			expErr: "id must be set",
		},
		"identifier with spaces": {
			asset: Asset[*testSpec]{
				Version:    1,
				Identifier: "iron ore",
				Spec:       &testSpec{valid: true},
			},
			expErr: "id must be alphanumeric",
		},
		"identifier with underscore": {
			asset: Asset[*testSpec]{
				Version:    1,
				Identifier: "iron_ore",
				Spec:       &testSpec{valid: true},
			},
			expErr: "id must be alphanumeric",
		},
		"invalid spec": {
			asset: Asset[*testSpec]{
				Version:    1,
				Identifier: "iron-ore",
				Spec:       &testSpec{valid: false},
			},
			expErr: "spec is invalid",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.asset.Validate()

			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestSmartIdentifier_Validate(t *testing.T) {
	set := NewSmartIdentifier[*testSpec]("iron")
	if err := set.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	empty := NewSmartIdentifier[*testSpec]("")
	testutil.AssertErrorContains(t, empty.Validate(), "testSpec identifier is required")
}

func TestSmartIdentifier_Resolve(t *testing.T) {
	st := &testStore{records: map[string]*testSpec{
		"iron": {valid: true},
	}}

	tests := map[string]struct {
		key    string
		expErr string
	}{
		"known reference":   {key: "iron"},
		"unknown reference": {key: "mithril", expErr: `testSpec "mithril" not found`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			id := NewSmartIdentifier[*testSpec](tt.key)
			err := id.Resolve(st)

			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestSmartIdentifier_UnmarshalJSON(t *testing.T) {
	// References appear in asset files as bare strings, the way a loot
	// table lists resource ids.
	var refs []SmartIdentifier[*testSpec]
	if err := json.Unmarshal([]byte(`["iron", "wood"]`), &refs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "count", len(refs), 2)
	testutil.AssertEqual(t, "first key", refs[0].Get(), "iron")
	testutil.AssertEqual(t, "second key", refs[1].Get(), "wood")
}
