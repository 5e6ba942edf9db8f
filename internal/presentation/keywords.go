package presentation

const (
	NoMatchedKeywords = "No matched keywords found"
	NoMissingKeywords = "Great! No critical keywords missing"
)

// TagGroup is a list of keyword tags with a count badge. Count comes from the service and is not
// derived from Tags, which may be a truncated preview.
type TagGroup struct {
	Tags        []string
	Count       int
	Placeholder string
}

// Empty reports whether the group renders its placeholder instead of tags.
func (g TagGroup) Empty() bool {
	return len(g.Tags) == 0
}

type KeywordSet struct {
	Matched TagGroup
	Missing TagGroup
}

// Partition builds matched and missing tag groups. Order is kept and duplicates are not removed.
func Partition(matched, missing []string, matchedCount, missingCount int) KeywordSet {
	set := KeywordSet{
		Matched: TagGroup{Tags: cloneStrings(matched), Count: matchedCount},
		Missing: TagGroup{Tags: cloneStrings(missing), Count: missingCount},
	}
	if set.Matched.Empty() {
		set.Matched.Placeholder = NoMatchedKeywords
	}
	if set.Missing.Empty() {
		set.Missing.Placeholder = NoMissingKeywords
	}
	return set
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
