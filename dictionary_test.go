package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDictionary(t *testing.T) {
	d := NewDictionary("title", "clip", "Artist", "someone", "dangling")
	assert.Equal(t, 2, d.Len())

	v, ok := d.Get("ARTIST")
	assert.True(t, ok)
	assert.Equal(t, "someone", v)
	_, ok = d.GetFlags("ARTIST", DictMatchCase)
	assert.False(t, ok)
	v, ok = d.GetFlags("tit", DictIgnoreSuffix)
	assert.True(t, ok)
	assert.Equal(t, "clip", v)

	d.Set("title", "other", DictDontOverwrite)
	v, _ = d.Get("title")
	assert.Equal(t, "clip", v)
	d.Set("title", "-2", DictAppend)
	v, _ = d.Get("title")
	assert.Equal(t, "clip-2", v)
	d.Set("title", "again", 0)
	v, _ = d.Get("title")
	assert.Equal(t, "again", v)

	d.Set("tag", "a", DictMultiKey)
	d.Set("tag", "b", DictMultiKey)
	d.Set("", "ignored", 0)
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, "b", d.Map()["tag"], "later duplicates win")

	d.Delete("TAG")
	assert.Equal(t, []DictEntry{{"title", "again"}, {"Artist", "someone"}}, d.Entries())
}

func TestDictionaryFromMap(t *testing.T) {
	d := DictionaryFromMap(map[string]string{"b": "2", "a": "1", "c": "3"})
	var keys []string
	for k := range d.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	var seen int
	d.Range(func(string, string) bool {
		seen++
		return seen < 2
	})
	assert.Equal(t, 2, seen)

	c := d.Clone()
	c.Set("a", "changed", 0)
	v, _ := d.Get("a")
	assert.Equal(t, "1", v)
}

func TestNilDictionary(t *testing.T) {
	var d *Dictionary
	assert.Zero(t, d.Len())
	assert.Nil(t, d.Entries())
	_, ok := d.Get("x")
	assert.False(t, ok)
	assert.Empty(t, d.Map())
	d.Delete("x")
}

func TestDictionaryNative(t *testing.T) {
	requireFFmpeg(t)
	d := NewDictionary("preset", "fast", "crf", "23")
	m, err := d.toNative()
	if !assert.NoError(t, err) {
		return
	}
	defer freeDict(&m)
	assert.Equal(t, d.Entries(), dictFromNative(m).Entries())

	empty, err := (&Dictionary{}).toNative()
	assert.NoError(t, err)
	assert.Nil(t, empty)
}
