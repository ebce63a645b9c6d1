// dictionary.go is the Dictionary aggregate and its binary serialization
// (spec.md §3 Dictionary, §4.8, §6). Load mirrors the teacher analyzer's
// loadInternal almost line for line: map the whole file, read a fixed
// header off the front, validate the magic, then build zero-copy slices
// over the mapped bytes for every flat array section. Save is the
// teacher's load in reverse, using the same unsafe reinterpretation so
// the two are exact round-trip inverses.
package dict

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"reflect"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// Magic identifies this package's binary dictionary format and version.
// A one-byte difference anywhere in these 8 bytes must cause Load to
// fail with ErrVersionMismatch, per spec.md §8's testable property.
var Magic = [8]byte{'V', 'I', 'B', 'R', 'A', 'T', '0', '1'}

// connKind tags which Connector shape a serialized dictionary carries.
type connKind uint8

const (
	connKindDense connKind = iota
	connKindCompact
)

// header is the fixed-size file map, read directly off the mmap'd bytes
// the way the teacher reads its Header.
type header struct {
	Magic [8]byte

	LexNodesOffset    int64
	LexNodesCount     int64
	LexEdgesOffset    int64
	LexEdgesCount     int64
	LexPayloadsOffset int64
	LexPayloadsCount  int64

	ConnKind        int64 // connKind, widened for fixed alignment
	ConnDenseOffset int64
	ConnDenseCount  int64
	ConnNumLeft     int64
	ConnNumRight    int64

	ConnCompactOffset int64
	ConnCompactLength int64

	CharPropOffset int64
	CharPropLength int64

	FeaturesOffset int64
	FeaturesLength int64
}

// Dictionary aggregates every compiled component. It is immutable and
// safe to share across Worker goroutines once loaded (spec.md §5).
type Dictionary struct {
	Lexicon     *Lexicon
	UnknownGen  *UnknownGen
	Connector   Connector
	CharProp    *CharProperty
	Features    *FeatureTable
	UserLexicon *UserLexicon // nil unless explicitly attached

	mapped mmap.MMap // non-nil only when Load'ed via mmap; Close unmaps
}

// LoadOptions controls Dictionary.Load.
type LoadOptions struct {
	// Unchecked skips the internal consistency assertion (every section's
	// offset and size within the blob's bounds) once the blob is attested
	// trusted. Connection ids are not checked at load time in either mode.
	Unchecked bool
}

// AttachUserLexicon overlays a user dictionary onto d; pass nil to detach.
func (d *Dictionary) AttachUserLexicon(ul *UserLexicon) { d.UserLexicon = ul }

// Close unmaps the underlying file, if this Dictionary was mmap'd. It is
// a no-op for dictionaries built in-process or loaded from a plain []byte
// with LoadBytes.
func (d *Dictionary) Close() error {
	if d.mapped != nil {
		return d.mapped.Unmap()
	}
	return nil
}

// Load memory-maps path and constructs a Dictionary over it zero-copy.
func Load(path string, opts LoadOptions) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary: %w", err)
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap dictionary: %w", err)
	}
	d, err := decode(m, opts)
	if err != nil {
		_ = m.Unmap()
		return nil, err
	}
	d.mapped = m
	return d, nil
}

// LoadBytes builds a Dictionary over an in-memory blob (e.g. one produced
// by Save into a bytes.Buffer in tests), without mmap.
func LoadBytes(b []byte, opts LoadOptions) (*Dictionary, error) {
	return decode(b, opts)
}

func decode(b []byte, opts LoadOptions) (*Dictionary, error) {
	var h header
	hdrSize := int(unsafe.Sizeof(h))
	if len(b) < hdrSize {
		return nil, fmt.Errorf("dictionary file too small for header: %w", ErrIoTooSmall)
	}
	if err := binary.Read(bytes.NewReader(b[:hdrSize]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("reading dictionary header: %w", err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("%w: got %q want %q", ErrVersionMismatch, h.Magic, Magic)
	}

	if !opts.Unchecked {
		if err := validateHeader(h, len(b)); err != nil {
			return nil, err
		}
	}

	nodes := bytesToSlice[FlatNode](b[h.LexNodesOffset : h.LexNodesOffset+h.LexNodesCount*int64(unsafe.Sizeof(FlatNode{}))])
	edges := bytesToSlice[FlatEdge](b[h.LexEdgesOffset : h.LexEdgesOffset+h.LexEdgesCount*int64(unsafe.Sizeof(FlatEdge{}))])
	payloads := bytesToSlice[WordEntry](b[h.LexPayloadsOffset : h.LexPayloadsOffset+h.LexPayloadsCount*int64(unsafe.Sizeof(WordEntry{}))])

	var conn Connector
	switch connKind(h.ConnKind) {
	case connKindDense:
		costs := bytesToSlice[int16](b[h.ConnDenseOffset : h.ConnDenseOffset+h.ConnDenseCount*2])
		conn = &DenseConnector{NumLeftIDs: int(h.ConnNumLeft), NumRightIDs: int(h.ConnNumRight), Costs: costs}
	case connKindCompact:
		cc, err := decodeCompactConnector(b[h.ConnCompactOffset : h.ConnCompactOffset+h.ConnCompactLength])
		if err != nil {
			return nil, fmt.Errorf("decoding compact connector: %w", err)
		}
		conn = cc
	default:
		return nil, fmt.Errorf("%w: unknown connector kind %d", ErrInputParse, h.ConnKind)
	}

	charProp, err := decodeCharProperty(b[h.CharPropOffset : h.CharPropOffset+h.CharPropLength])
	if err != nil {
		return nil, fmt.Errorf("decoding char property: %w", err)
	}

	features, err := decodeFeatures(b[h.FeaturesOffset : h.FeaturesOffset+h.FeaturesLength])
	if err != nil {
		return nil, fmt.Errorf("decoding feature table: %w", err)
	}

	return &Dictionary{
		Lexicon:    &Lexicon{Nodes: nodes, Edges: edges, Payloads: payloads},
		UnknownGen: NewUnknownGen(charProp),
		Connector:  conn,
		CharProp:   charProp,
		Features:   features,
	}, nil
}

func validateHeader(h header, fileLen int) error {
	type span struct {
		name         string
		offset, size int64
	}
	spans := []span{
		{"lexicon nodes", h.LexNodesOffset, h.LexNodesCount * int64(unsafe.Sizeof(FlatNode{}))},
		{"lexicon edges", h.LexEdgesOffset, h.LexEdgesCount * int64(unsafe.Sizeof(FlatEdge{}))},
		{"lexicon payloads", h.LexPayloadsOffset, h.LexPayloadsCount * int64(unsafe.Sizeof(WordEntry{}))},
		{"char property", h.CharPropOffset, h.CharPropLength},
		{"feature table", h.FeaturesOffset, h.FeaturesLength},
	}
	if connKind(h.ConnKind) == connKindDense {
		spans = append(spans, span{"connector", h.ConnDenseOffset, h.ConnDenseCount * 2})
	} else {
		spans = append(spans, span{"connector", h.ConnCompactOffset, h.ConnCompactLength})
	}
	for _, s := range spans {
		if s.offset < 0 || s.size < 0 || s.offset+s.size > int64(fileLen) {
			return fmt.Errorf("%w: %s section out of bounds", ErrInputParse, s.name)
		}
	}
	return nil
}

// Save writes d in the binary format Load expects. The dictionary must
// use a DenseConnector or CompactConnector concretely (Connector is a
// closed tagged variant, not meant for external implementations).
func Save(w io.Writer, d *Dictionary) error {
	var charPropBuf, featuresBuf, connBuf bytes.Buffer
	if err := encodeCharProperty(&charPropBuf, d.CharProp); err != nil {
		return fmt.Errorf("encoding char property: %w", err)
	}
	if err := encodeFeatures(&featuresBuf, d.Features); err != nil {
		return fmt.Errorf("encoding feature table: %w", err)
	}

	h := header{Magic: Magic}
	nodesBytes := sliceToBytes(d.Lexicon.Nodes)
	edgesBytes := sliceToBytes(d.Lexicon.Edges)
	payloadsBytes := sliceToBytes(d.Lexicon.Payloads)

	var kind connKind
	var denseBytes []byte
	switch c := d.Connector.(type) {
	case *DenseConnector:
		kind = connKindDense
		denseBytes = sliceToBytes(c.Costs)
		h.ConnNumLeft = int64(c.NumLeftIDs)
		h.ConnNumRight = int64(c.NumRightIDs)
		h.ConnDenseCount = int64(len(c.Costs))
	case *CompactConnector:
		kind = connKindCompact
		if err := encodeCompactConnector(&connBuf, c); err != nil {
			return fmt.Errorf("encoding compact connector: %w", err)
		}
		h.ConnNumLeft = int64(c.NumLeftIDs)
		h.ConnNumRight = int64(c.NumRightIDs)
	default:
		return fmt.Errorf("%w: unsupported connector implementation %T", ErrInputParse, d.Connector)
	}
	h.ConnKind = int64(kind)

	h.LexNodesCount = int64(len(d.Lexicon.Nodes))
	h.LexEdgesCount = int64(len(d.Lexicon.Edges))
	h.LexPayloadsCount = int64(len(d.Lexicon.Payloads))

	offset := int64(unsafe.Sizeof(h))
	place := func(n int64) int64 {
		o := offset
		offset += n
		return o
	}
	h.LexNodesOffset = place(int64(len(nodesBytes)))
	h.LexEdgesOffset = place(int64(len(edgesBytes)))
	h.LexPayloadsOffset = place(int64(len(payloadsBytes)))
	if kind == connKindDense {
		h.ConnDenseOffset = place(int64(len(denseBytes)))
	} else {
		h.ConnCompactOffset = place(int64(connBuf.Len()))
		h.ConnCompactLength = int64(connBuf.Len())
	}
	h.CharPropOffset = place(int64(charPropBuf.Len()))
	h.CharPropLength = int64(charPropBuf.Len())
	h.FeaturesOffset = place(int64(featuresBuf.Len()))
	h.FeaturesLength = int64(featuresBuf.Len())

	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, chunk := range [][]byte{nodesBytes, edgesBytes, payloadsBytes} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("writing lexicon section: %w", err)
		}
	}
	if kind == connKindDense {
		if _, err := w.Write(denseBytes); err != nil {
			return fmt.Errorf("writing connector section: %w", err)
		}
	} else {
		if _, err := w.Write(connBuf.Bytes()); err != nil {
			return fmt.Errorf("writing connector section: %w", err)
		}
	}
	if _, err := w.Write(charPropBuf.Bytes()); err != nil {
		return fmt.Errorf("writing char property section: %w", err)
	}
	if _, err := w.Write(featuresBuf.Bytes()); err != nil {
		return fmt.Errorf("writing feature table section: %w", err)
	}
	return nil
}

// gobCharProperty / gobFeatures are the "complex data" gob-encoded
// sections (spec.md §4.8): variable-length, string- and map-shaped data
// that does not belong in a flat mmap'd array, mirroring the teacher's
// own split between raw sections and one gob-decoded ComplexData block.
// Unlike the teacher, this section is NOT gzip-wrapped: compression of
// the serialized dictionary is an explicit spec.md Non-goal (an outer
// byte-stream codec), so the inner format stays uncompressed.

type gobCharRange struct {
	Lo, Hi rune
	Cats   []int
}

type gobCharProperty struct {
	Categories []CharCategory
	Ranges     []gobCharRange
}

func encodeCharProperty(w io.Writer, cp *CharProperty) error {
	g := gobCharProperty{Categories: cp.Categories}
	for _, r := range cp.ranges {
		g.Ranges = append(g.Ranges, gobCharRange{Lo: r.Lo, Hi: r.Hi, Cats: CategorySet(r.Cats)})
	}
	return gob.NewEncoder(w).Encode(g)
}

func decodeCharProperty(b []byte) (*CharProperty, error) {
	var g gobCharProperty
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&g); err != nil {
		return nil, err
	}
	declared := make([]struct {
		Lo, Hi rune
		Cats   []int
	}, len(g.Ranges))
	for i, r := range g.Ranges {
		declared[i] = struct {
			Lo, Hi rune
			Cats   []int
		}{Lo: r.Lo, Hi: r.Hi, Cats: r.Cats}
	}
	return NewCharProperty(g.Categories, declared), nil
}

func encodeFeatures(w io.Writer, ft *FeatureTable) error {
	return gob.NewEncoder(w).Encode(ft.All())
}

func decodeFeatures(b []byte) (*FeatureTable, error) {
	var strs []string
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&strs); err != nil {
		return nil, err
	}
	return NewFeatureTableFromStrings(strs), nil
}

type gobCompactConnector struct {
	NumLeftIDs, NumRightIDs int
	RightClass, LeftClass   []uint16
	NumRightClasses         int
	NumLeftClasses          int
	ClassCosts              []int16
	Dual                    bool
	RightClass2, LeftClass2 []uint16
	NumRightClasses2        int
	NumLeftClasses2         int
	ClassCosts2             []int16
}

func encodeCompactConnector(w io.Writer, c *CompactConnector) error {
	g := gobCompactConnector{
		NumLeftIDs: c.NumLeftIDs, NumRightIDs: c.NumRightIDs,
		RightClass: c.RightClass, LeftClass: c.LeftClass,
		NumRightClasses: c.NumRightClasses, NumLeftClasses: c.NumLeftClasses,
		ClassCosts: c.ClassCosts, Dual: c.Dual,
		RightClass2: c.RightClass2, LeftClass2: c.LeftClass2,
		NumRightClasses2: c.NumRightClasses2, NumLeftClasses2: c.NumLeftClasses2,
		ClassCosts2: c.ClassCosts2,
	}
	return gob.NewEncoder(w).Encode(g)
}

func decodeCompactConnector(b []byte) (*CompactConnector, error) {
	var g gobCompactConnector
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&g); err != nil {
		return nil, err
	}
	return &CompactConnector{
		NumLeftIDs: g.NumLeftIDs, NumRightIDs: g.NumRightIDs,
		RightClass: g.RightClass, LeftClass: g.LeftClass,
		NumRightClasses: g.NumRightClasses, NumLeftClasses: g.NumLeftClasses,
		ClassCosts: g.ClassCosts, Dual: g.Dual,
		RightClass2: g.RightClass2, LeftClass2: g.LeftClass2,
		NumRightClasses2: g.NumRightClasses2, NumLeftClasses2: g.NumLeftClasses2,
		ClassCosts2: g.ClassCosts2,
	}, nil
}

// bytesToSlice reinterprets a byte range as a []T without copying,
// exactly the teacher analyzer's helper of the same name.
func bytesToSlice[T any](b []byte) []T {
	if len(b) == 0 {
		return nil
	}
	var t T
	size := int(unsafe.Sizeof(t))
	hdr := reflect.SliceHeader{Data: uintptr(unsafe.Pointer(&b[0])), Len: len(b) / size, Cap: len(b) / size}
	return *(*[]T)(unsafe.Pointer(&hdr))
}

// sliceToBytes is bytesToSlice's inverse, used by Save to get the exact
// bytes decode would reconstitute.
func sliceToBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var t T
	size := int(unsafe.Sizeof(t))
	hdr := reflect.SliceHeader{Data: uintptr(unsafe.Pointer(&s[0])), Len: len(s) * size, Cap: len(s) * size}
	return *(*[]byte)(unsafe.Pointer(&hdr))
}
