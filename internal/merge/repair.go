package merge

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

var (
	objHeader = regexp.MustCompile(`(\d{1,10})[ \t\r\n\f\x00]+(\d{1,5})[ \t\r\n\f\x00]+obj`)
	rootRef   = regexp.MustCompile(`/Root[ \t\r\n\f\x00]*(\d+)[ \t\r\n\f\x00]+(\d+)[ \t\r\n\f\x00]+R`)
	infoRef   = regexp.MustCompile(`/Info[ \t\r\n\f\x00]*(\d+)[ \t\r\n\f\x00]+(\d+)[ \t\r\n\f\x00]+R`)
	catalog   = regexp.MustCompile(`/Type[ \t\r\n\f\x00]*/Catalog\b`)
)

type objLoc struct {
	offset int
	gen    int
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isPDFDelim(c byte) bool {
	switch c {
	case '<', '>', '[', ']', '(', ')', '{', '}', '/', '%':
		return true
	}
	return isPDFSpace(c)
}

// scanObjects finds every "N G obj" header in doc. A later definition of the same
// object number wins, as it would after an incremental update.
func scanObjects(doc []byte) map[int]objLoc {
	objs := map[int]objLoc{}
	for _, m := range objHeader.FindAllSubmatchIndex(doc, -1) {
		start, end := m[0], m[1]
		if start > 0 && !isPDFDelim(doc[start-1]) {
			continue
		}
		if end < len(doc) && !isPDFDelim(doc[end]) {
			continue
		}
		num, err1 := strconv.Atoi(string(doc[m[2]:m[3]]))
		gen, err2 := strconv.Atoi(string(doc[m[4]:m[5]]))
		if err1 != nil || err2 != nil || num == 0 {
			continue
		}
		objs[num] = objLoc{offset: start, gen: gen}
	}
	return objs
}

// lastRef returns the last "N G R" reference matched by re, or "".
func lastRef(re *regexp.Regexp, doc []byte) string {
	all := re.FindAllSubmatch(doc, -1)
	if len(all) == 0 {
		return ""
	}
	m := all[len(all)-1]
	return string(m[1]) + " " + string(m[2]) + " R"
}

// findCatalog locates the catalog object when no trailer names it.
func findCatalog(doc []byte, objs map[int]objLoc) string {
	nums := make([]int, 0, len(objs))
	for n := range objs {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	for _, n := range nums {
		body := doc[objs[n].offset:]
		if end := bytes.Index(body, []byte("endobj")); end >= 0 {
			body = body[:end]
		}
		if catalog.Match(body) {
			return strconv.Itoa(n) + " " + strconv.Itoa(objs[n].gen) + " R"
		}
	}
	return ""
}

// repairXref rebuilds the cross-reference table of doc from the object headers it
// contains. The result is doc followed by a fresh xref section, trailer and startxref;
// doc itself is not modified. ok is false when doc holds no usable objects or no
// catalog can be found.
func repairXref(doc []byte) (fixed []byte, ok bool) {
	objs := scanObjects(doc)
	if len(objs) == 0 {
		return nil, false
	}
	root := lastRef(rootRef, doc)
	if root == "" {
		root = findCatalog(doc, objs)
	}
	if root == "" {
		return nil, false
	}
	size := 0
	for n := range objs {
		if n+1 > size {
			size = n + 1
		}
	}

	var b bytes.Buffer
	b.Grow(len(doc) + 20*size + 128)
	b.Write(doc)
	if n := len(doc); n > 0 && doc[n-1] != '\n' && doc[n-1] != '\r' {
		b.WriteByte('\n')
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", size)
	for n := 0; n < size; n++ {
		loc, found := objs[n]
		if !found {
			b.WriteString("0000000000 65535 f \n")
			continue
		}
		fmt.Fprintf(&b, "%010d %05d n \n", loc.offset, loc.gen)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root %s", size, root)
	if info := lastRef(infoRef, doc); info != "" {
		fmt.Fprintf(&b, " /Info %s", info)
	}
	fmt.Fprintf(&b, " >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return b.Bytes(), true
}
