package library

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"quaformat/qua"
)

func openTemp(t *testing.T) *Library {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "lib.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestPutGetDelete(t *testing.T) {
	l := openTemp(t)
	c := qua.New()
	c.Title = "Stored"
	c.HitObjects = []qua.HitObject{{StartTime: 10, Lane: 2, KeySounds: []qua.KeySound{}}}

	if err := l.Put("set/a.qua", c); err != nil {
		t.Fatal(err)
	}
	got, err := l.Get("set/a.qua")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, c) {
		t.Errorf("got %+v, want %+v", got, c)
	}

	if err := l.Delete("set/a.qua"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Get("set/a.qua"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := l.Delete("set/a.qua"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPackDir(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("b/hard.qua", "Title: Hard\n")
	write("a.qua", "Title: A\n")
	write("broken.qua", "HitObjects: 5\n")

	l := openTemp(t)
	packed, failed, err := l.PackDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(packed, []string{"a.qua", "b/hard.qua"}) {
		t.Errorf("packed = %v", packed)
	}
	if _, ok := failed["broken.qua"]; !ok || len(failed) != 1 {
		t.Errorf("failed = %v", failed)
	}

	keys, err := l.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, packed) {
		t.Errorf("keys = %v", keys)
	}
	c, err := l.Get("b/hard.qua")
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != "Hard" {
		t.Errorf("title = %q", c.Title)
	}
}

func TestReopenKeepsCharts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.db")
	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Put("x.qua", qua.New()); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	l, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	keys, err := l.Keys()
	if err != nil || len(keys) != 1 || keys[0] != "x.qua" {
		t.Fatalf("keys = %v, err = %v", keys, err)
	}
}
