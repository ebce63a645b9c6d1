package dict

import (
	"bytes"
	"errors"
	"testing"
)

func buildTestDictionary() *Dictionary {
	ft := NewFeatureTable()
	feat := ft.Intern("名詞,一般,*,*,*,*,猫,ネコ,ネコ")

	lx := &Lexicon{
		Nodes: []FlatNode{
			{EdgesIdx: 0, EdgesLen: 1},
			{IsFinal: true, PayloadIdx: 0, PayloadLen: 1},
		},
		Edges:    []FlatEdge{{Byte: 'a', NodeID: 1}},
		Payloads: []WordEntry{{LeftID: 0, RightID: 0, Cost: 5, FeatureID: feat}},
	}
	conn := &DenseConnector{NumLeftIDs: 1, NumRightIDs: 1, Costs: []int16{3}}
	cp := NewCharProperty([]CharCategory{{Name: "DEFAULT", Invoke: true}}, nil)

	return &Dictionary{Lexicon: lx, UnknownGen: NewUnknownGen(cp), Connector: conn, CharProp: cp, Features: ft}
}

func TestDictionarySaveLoadRoundTrip(t *testing.T) {
	d := buildTestDictionary()

	var buf bytes.Buffer
	if err := Save(&buf, d); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadBytes(buf.Bytes(), LoadOptions{})
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}

	matches := loaded.Lexicon.CommonPrefixSearch([]byte("a"), 0)
	if len(matches) != 1 || matches[0].Entry.Cost != 5 {
		t.Fatalf("got %+v, want one entry with cost 5", matches)
	}
	if loaded.Features.Get(matches[0].Entry.FeatureID) != "名詞,一般,*,*,*,*,猫,ネコ,ネコ" {
		t.Errorf("feature string did not round-trip: %q", loaded.Features.Get(matches[0].Entry.FeatureID))
	}
	if got := loaded.Connector.Cost(0, 0); got != 3 {
		t.Errorf("connector cost did not round-trip: got %d, want 3", got)
	}
}

func TestDictionaryLoadRejectsVersionMismatch(t *testing.T) {
	d := buildTestDictionary()
	var buf bytes.Buffer
	if err := Save(&buf, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	corrupted := buf.Bytes()
	corrupted[0] ^= 0xFF // flip one byte of the magic

	_, err := LoadBytes(corrupted, LoadOptions{})
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("got %v, want ErrVersionMismatch", err)
	}
}

func TestDictionaryLoadRejectsTooSmall(t *testing.T) {
	_, err := LoadBytes([]byte{1, 2, 3}, LoadOptions{})
	if !errors.Is(err, ErrIoTooSmall) {
		t.Fatalf("got %v, want ErrIoTooSmall", err)
	}
}

func TestDictionaryCompactConnectorRoundTrip(t *testing.T) {
	d := buildTestDictionary()
	d.Connector = &CompactConnector{
		NumLeftIDs: 1, NumRightIDs: 1,
		RightClass: []uint16{0}, LeftClass: []uint16{0},
		NumRightClasses: 1, NumLeftClasses: 1,
		ClassCosts: []int16{7},
	}

	var buf bytes.Buffer
	if err := Save(&buf, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadBytes(buf.Bytes(), LoadOptions{})
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if got := loaded.Connector.Cost(0, 0); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}
