package transport

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"time"
)

// cookieRecord is one packed `[len:u16][name=value; ][expire:u32 BE]`
// entry (spec §6 "Cookie jar"). The fixed wire format is a direct match
// for encoding/binary — no pack cookie-jar library has a compatible
// on-disk shape, see DESIGN.md.
type cookieRecord struct {
	name, value string
	expire      uint32
}

// FileCookieJar is the default CookieJar: one file per site, holding a
// sequence of packed cookie records. Cookies whose expire field is in
// the past are silently dropped at load time (ria_http.c's behavior,
// supplemented per SPEC_FULL.md since spec.md only documents the record
// shape, not the expiry filter).
type FileCookieJar struct {
	dir     string
	records map[string]map[string]cookieRecord // site -> name -> record
	now     func() time.Time
}

func NewFileCookieJar(dir string) *FileCookieJar {
	return &FileCookieJar{dir: dir, records: make(map[string]map[string]cookieRecord), now: time.Now}
}

func (j *FileCookieJar) path(site string) string {
	return j.dir + "/" + site + ".cookiejar"
}

func (j *FileCookieJar) Load(site string) error {
	data, err := os.ReadFile(j.path(site))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	now := uint32(j.now().Unix())
	bucket := make(map[string]cookieRecord)
	pos := 0
	for pos < len(data) {
		if pos+2 > len(data) {
			return fmt.Errorf("cookie jar %s: truncated record length", site)
		}
		length := int(binary.BigEndian.Uint16(data[pos:]))
		pos += 2
		if pos+length+4 > len(data) {
			return fmt.Errorf("cookie jar %s: truncated record body", site)
		}
		pair := string(data[pos : pos+length])
		pos += length
		expire := binary.BigEndian.Uint32(data[pos:])
		pos += 4

		if expire != 0 && expire < now {
			continue // expired: dropped silently, matching the original loader
		}
		name, value, ok := strings.Cut(strings.TrimSuffix(pair, "; "), "=")
		if !ok {
			return fmt.Errorf("cookie jar %s: malformed name=value pair %q", site, pair)
		}
		bucket[name] = cookieRecord{name: name, value: value, expire: expire}
	}
	j.records[site] = bucket
	return nil
}

func (j *FileCookieJar) Save(site string) error {
	bucket := j.records[site]
	var out []byte
	for _, rec := range bucket {
		pair := rec.name + "=" + rec.value + "; "
		var lenBuf [2]byte
		binary.BigEndian.PutUint16(lenBuf[:], uint16(len(pair)))
		out = append(out, lenBuf[:]...)
		out = append(out, pair...)
		var expBuf [4]byte
		binary.BigEndian.PutUint32(expBuf[:], rec.expire)
		out = append(out, expBuf[:]...)
	}
	return os.WriteFile(j.path(site), out, 0o600)
}

// Get returns the cookie value keyed by user+key; the original engine's
// load_cookie(site, user, key) composes the lookup key as "user:key" so a
// single site file can hold cookies for multiple logical users.
func (j *FileCookieJar) Get(site, user, key string) (string, bool) {
	bucket, ok := j.records[site]
	if !ok {
		return "", false
	}
	rec, ok := bucket[user+":"+key]
	if !ok {
		return "", false
	}
	return rec.value, true
}

func (j *FileCookieJar) Set(site, user, key, value string, expireUnix int64) {
	bucket, ok := j.records[site]
	if !ok {
		bucket = make(map[string]cookieRecord)
		j.records[site] = bucket
	}
	name := user + ":" + key
	bucket[name] = cookieRecord{name: name, value: value, expire: uint32(expireUnix)}
}
