package ffmpeg

import (
	"iter"
	"slices"
	"strings"
	"unsafe"
)

// DictFlags modify Dictionary lookups and updates (AV_DICT_*).
type DictFlags int32

const (
	DictMatchCase     DictFlags = 1
	DictIgnoreSuffix  DictFlags = 2
	DictDontOverwrite DictFlags = 16
	DictAppend        DictFlags = 32
	DictMultiKey      DictFlags = 64
)

// DictEntry is one key/value pair.
type DictEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Dictionary is an ordered set of string pairs, the Go side of AVDictionary.
// It is converted to and from the native form at call boundaries, so it can
// be built and inspected without the libraries loaded. The zero value is an
// empty dictionary.
type Dictionary struct {
	entries []DictEntry
}

// NewDictionary builds a dictionary from alternating keys and values.
// A trailing key without a value is ignored.
func NewDictionary(kv ...string) *Dictionary {
	d := &Dictionary{}
	for i := 0; i+1 < len(kv); i += 2 {
		d.Set(kv[i], kv[i+1], 0)
	}
	return d
}

// DictionaryFromMap builds a dictionary from m with keys in sorted order.
func DictionaryFromMap(m map[string]string) *Dictionary {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	d := &Dictionary{}
	for _, k := range keys {
		d.Set(k, m[k], 0)
	}
	return d
}

func (d *Dictionary) find(key string, flags DictFlags) int {
	if d == nil {
		return -1
	}
	for i, e := range d.entries {
		if keyMatches(e.Key, key, flags) {
			return i
		}
	}
	return -1
}

func keyMatches(have, want string, flags DictFlags) bool {
	if flags&DictIgnoreSuffix != 0 {
		if len(have) < len(want) {
			return false
		}
		have = have[:len(want)]
	}
	if flags&DictMatchCase != 0 {
		return have == want
	}
	return strings.EqualFold(have, want)
}

// Set adds or updates key. With DictDontOverwrite an existing value is kept;
// with DictAppend the value is appended to the existing one; with
// DictMultiKey a new entry is always added.
func (d *Dictionary) Set(key, value string, flags DictFlags) {
	if key == "" {
		return
	}
	i := -1
	if flags&DictMultiKey == 0 {
		i = d.find(key, flags&DictMatchCase)
	}
	switch {
	case i < 0:
		d.entries = append(d.entries, DictEntry{Key: key, Value: value})
	case flags&DictDontOverwrite != 0:
	case flags&DictAppend != 0:
		d.entries[i].Value += value
	default:
		d.entries[i].Value = value
	}
}

// Get returns the value of the first entry matching key (case-insensitive).
func (d *Dictionary) Get(key string) (string, bool) {
	return d.GetFlags(key, 0)
}

// GetFlags is Get with explicit match flags.
func (d *Dictionary) GetFlags(key string, flags DictFlags) (string, bool) {
	if i := d.find(key, flags); i >= 0 {
		return d.entries[i].Value, true
	}
	return "", false
}

// Delete removes every entry matching key.
func (d *Dictionary) Delete(key string) {
	if d == nil {
		return
	}
	out := d.entries[:0]
	for _, e := range d.entries {
		if !keyMatches(e.Key, key, 0) {
			out = append(out, e)
		}
	}
	d.entries = out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns a copy of the entries in insertion order.
func (d *Dictionary) Entries() []DictEntry {
	if d == nil {
		return nil
	}
	return append([]DictEntry(nil), d.entries...)
}

// All iterates over the entries in insertion order.
func (d *Dictionary) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if d == nil {
			return
		}
		for _, e := range d.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Range calls fn for each entry until it returns false.
func (d *Dictionary) Range(fn func(key, value string) bool) {
	for k, v := range d.All() {
		if !fn(k, v) {
			return
		}
	}
}

// Map returns the entries as a map. Later duplicates win.
func (d *Dictionary) Map() map[string]string {
	m := make(map[string]string, d.Len())
	for k, v := range d.All() {
		m[k] = v
	}
	return m
}

// Clone returns a deep copy.
func (d *Dictionary) Clone() *Dictionary {
	return &Dictionary{entries: d.Entries()}
}

// toNative builds an AVDictionary. The caller owns the result and must pass
// it to freeDict. An empty dictionary yields nil, which FFmpeg accepts.
func (d *Dictionary) toNative() (unsafe.Pointer, error) {
	var m unsafe.Pointer
	for _, e := range d.Entries() {
		if ret := avDictSet(&m, e.Key, e.Value, int32(DictMultiKey)); ret < 0 {
			freeDict(&m)
			return nil, newError(ret, "av_dict_set")
		}
	}
	return m, nil
}

// dictFromNative copies an AVDictionary into a new Dictionary.
func dictFromNative(m unsafe.Pointer) *Dictionary {
	d := &Dictionary{}
	if m == nil {
		return d
	}
	var prev unsafe.Pointer
	for {
		prev = avDictGet(m, "", prev, int32(DictIgnoreSuffix))
		if prev == nil {
			return d
		}
		d.entries = append(d.entries, DictEntry{
			Key:   peekString(prev, offDictKey),
			Value: peekString(prev, offDictValue),
		})
	}
}

// setNativeDict replaces the dictionary stored at *slot with d.
func setNativeDict(slot *unsafe.Pointer, d *Dictionary) error {
	m, err := d.toNative()
	if err != nil {
		return err
	}
	freeDict(slot)
	*slot = m
	return nil
}

func freeDict(m *unsafe.Pointer) {
	if *m != nil {
		avDictFree(m)
	}
}

// passNative hands opts to a native call taking an AVDictionary** and
// replaces the contents of opts with the entries the call did not consume.
func passNative(opts *Dictionary, call func(m *unsafe.Pointer) int32) (int32, error) {
	m, err := opts.toNative()
	if err != nil {
		return 0, err
	}
	ret := call(&m)
	if opts != nil {
		opts.entries = dictFromNative(m).entries
	}
	freeDict(&m)
	return ret, nil
}
