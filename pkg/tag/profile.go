package tag

import "strings"

// Profile describes the user memory of an NFC tag model.
type Profile struct {
	Name     string
	Capacity int
}

var (
	NTAG213 = Profile{Name: "ntag213", Capacity: 144}
	NTAG215 = Profile{Name: "ntag215", Capacity: 504}
	NTAG216 = Profile{Name: "ntag216", Capacity: 888}
)

// Profiles returns the known tag models, smallest first.
func Profiles() []Profile {
	return []Profile{NTAG213, NTAG215, NTAG216}
}

// ProfileByName looks up a tag model such as "ntag215" or "NTAG-215".
func ProfileByName(name string) (Profile, bool) {
	key := strings.ToLower(strings.ReplaceAll(name, "-", ""))
	for _, p := range Profiles() {
		if p.Name == key {
			return p, true
		}
	}
	return Profile{}, false
}

// Fits reports whether n bytes fit on the tag.
func (p Profile) Fits(n int) bool { return n <= p.Capacity }

// Smallest returns the smallest known tag that holds n bytes.
func Smallest(n int) (Profile, bool) {
	for _, p := range Profiles() {
		if p.Fits(n) {
			return p, true
		}
	}
	return Profile{}, false
}
