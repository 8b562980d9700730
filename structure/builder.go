// Package structure assembles marked-content registrations collected
// during rendering into a cross-referenced logical structure tree: one
// StructElem record per element, a parent tree mapping (page, MCID) pairs
// back to their owning elements, link annotation entries, and the
// Document/StructTreeRoot pair wiring it all together.
package structure

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tagpdf/tagpdf/dom"
	"github.com/tagpdf/tagpdf/ir/raw"
	"github.com/tagpdf/tagpdf/observability"
)

// Registration ties a logical node to a marked-content sequence on a page.
type Registration struct {
	Node *dom.Node
	MCID int
	Page int
}

type regKey struct {
	node dom.NodeID
	mcid int
	page int
}

// LinkAnnotation names a link annotation object needing a structural entry.
type LinkAnnotation struct {
	Ref  raw.ObjectRef
	Page int
}

// Record is one serialized structure object with its assigned reference.
type Record struct {
	Ref raw.ObjectRef
	Obj raw.Object
}

// Result is the assembled tree. Immutable once returned.
type Result struct {
	Records     []Record
	RootRef     raw.ObjectRef // StructTreeRoot
	DocumentRef raw.ObjectRef // Document wrapper
}

// Empty reports whether the document had no accessible content to tag.
func (r Result) Empty() bool { return len(r.Records) == 0 }

// TreeBuilder accumulates registrations during rendering and performs the
// batch assembly pass once rendering completes. It implements
// tagging.Listener so it can be injected into the decision engines.
type TreeBuilder struct {
	tree *dom.Tree
	regs []Registration
	seen map[regKey]struct{}

	rootRef raw.ObjectRef
	log     observability.Logger
}

// NewTreeBuilder creates a builder over the render's node tree.
func NewTreeBuilder(tree *dom.Tree, log observability.Logger) *TreeBuilder {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &TreeBuilder{tree: tree, seen: make(map[regKey]struct{}), log: log}
}

// SequenceOpened records a registration for an opened semantic sequence.
// The role is recomputed from the node at build time.
func (b *TreeBuilder) SequenceOpened(node dom.NodeID, mcid int, role string, page int) {
	n, ok := b.tree.Lookup(node)
	if !ok {
		b.log.Warn("registration for unknown node dropped", observability.Int("node", int(node)))
		return
	}
	b.Register(n, mcid, page)
}

// Register inserts a registration, silently absorbing duplicates of the
// same (node, mcid, page) triple.
func (b *TreeBuilder) Register(n *dom.Node, mcid, page int) {
	key := regKey{node: n.ID, mcid: mcid, page: page}
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	b.regs = append(b.regs, Registration{Node: n, MCID: mcid, Page: page})
}

// Registrations returns the accumulated registrations in arrival order.
func (b *TreeBuilder) Registrations() []Registration { return b.regs }

// RootRef returns the tree root reference cached by the last Build.
func (b *TreeBuilder) RootRef() raw.ObjectRef { return b.rootRef }

// Build performs the batch assembly pass. Object identifiers are computed
// purely arithmetically from startID, in this order: collected elements
// (depth, then node id), link entries, parent tree, document wrapper, tree
// root. The caller performing real allocation must use the same ordering.
func (b *TreeBuilder) Build(startID int, pageRefs map[int]raw.ObjectRef, links []LinkAnnotation) Result {
	if len(b.regs) == 0 {
		return Result{}
	}

	collected := b.collect()
	sort.Slice(collected, func(i, j int) bool {
		if collected[i].Depth() != collected[j].Depth() {
			return collected[i].Depth() < collected[j].Depth()
		}
		return collected[i].ID < collected[j].ID
	})

	// pre-compute all identifiers before emitting anything
	next := startID
	elemRef := make(map[dom.NodeID]raw.ObjectRef, len(collected))
	for _, n := range collected {
		elemRef[n.ID] = raw.ObjectRef{Num: next}
		next++
	}
	linkRefs := make([]raw.ObjectRef, len(links))
	for i := range links {
		linkRefs[i] = raw.ObjectRef{Num: next}
		next++
	}
	parentTreeRef := raw.ObjectRef{Num: next}
	next++
	docRef := raw.ObjectRef{Num: next}
	next++
	rootRef := raw.ObjectRef{Num: next}

	regsByNode := make(map[dom.NodeID][]Registration)
	for _, reg := range b.regs {
		regsByNode[reg.Node.ID] = append(regsByNode[reg.Node.ID], reg)
	}

	parentTree := make(map[int]map[int]raw.ObjectRef)
	idTree := make(map[string]raw.ObjectRef)
	var records []Record
	var topLevel []raw.ObjectRef

	for _, n := range collected {
		ref := elemRef[n.ID]
		dict := raw.Dict()
		dict.Set(raw.NameLiteral("Type"), raw.NameLiteral("StructElem"))
		dict.Set(raw.NameLiteral("S"), raw.NameLiteral(n.Role()))

		parent := structureParent(n, elemRef)
		if parent.IsZero() {
			parent = docRef
			topLevel = append(topLevel, ref)
		}
		dict.Set(raw.NameLiteral("P"), raw.Ref(parent.Num, parent.Gen))

		regs := regsByNode[n.ID]
		elemPage := -1
		if len(regs) > 0 {
			elemPage = regs[0].Page
			if pg, ok := pageRefs[elemPage]; ok {
				dict.Set(raw.NameLiteral("Pg"), raw.Ref(pg.Num, pg.Gen))
			}
		}

		kids := raw.NewArray()
		for _, reg := range regs {
			if reg.Page == elemPage {
				kids.Append(raw.NumberInt(int64(reg.MCID)))
			} else if pg, ok := pageRefs[reg.Page]; ok {
				mcr := raw.Dict()
				mcr.Set(raw.NameLiteral("Type"), raw.NameLiteral("MCR"))
				mcr.Set(raw.NameLiteral("Pg"), raw.Ref(pg.Num, pg.Gen))
				mcr.Set(raw.NameLiteral("MCID"), raw.NumberInt(int64(reg.MCID)))
				kids.Append(mcr)
			}
			if _, ok := parentTree[reg.Page]; !ok {
				parentTree[reg.Page] = make(map[int]raw.ObjectRef)
			}
			parentTree[reg.Page][reg.MCID] = ref
		}
		for _, child := range structureChildren(n, elemRef) {
			kids.Append(raw.Ref(child.Num, child.Gen))
		}
		if kids.Len() > 0 {
			dict.Set(raw.NameLiteral("K"), kids)
		}

		b.applyExtras(n, ref, dict, idTree)
		records = append(records, Record{Ref: ref, Obj: dict})
	}

	for i, link := range links {
		dict := raw.Dict()
		dict.Set(raw.NameLiteral("Type"), raw.NameLiteral("StructElem"))
		dict.Set(raw.NameLiteral("S"), raw.NameLiteral("Link"))
		dict.Set(raw.NameLiteral("P"), raw.Ref(docRef.Num, docRef.Gen))
		if pg, ok := pageRefs[link.Page]; ok {
			dict.Set(raw.NameLiteral("Pg"), raw.Ref(pg.Num, pg.Gen))
		}
		objr := raw.Dict()
		objr.Set(raw.NameLiteral("Type"), raw.NameLiteral("OBJR"))
		objr.Set(raw.NameLiteral("Obj"), raw.Ref(link.Ref.Num, link.Ref.Gen))
		dict.Set(raw.NameLiteral("K"), raw.NewArray(objr))
		records = append(records, Record{Ref: linkRefs[i], Obj: dict})
	}

	records = append(records, Record{Ref: parentTreeRef, Obj: buildParentTree(parentTree)})

	docDict := raw.Dict()
	docDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("StructElem"))
	docDict.Set(raw.NameLiteral("S"), raw.NameLiteral("Document"))
	docDict.Set(raw.NameLiteral("P"), raw.Ref(rootRef.Num, rootRef.Gen))
	docKids := raw.NewArray()
	for _, ref := range topLevel {
		docKids.Append(raw.Ref(ref.Num, ref.Gen))
	}
	for _, ref := range linkRefs {
		docKids.Append(raw.Ref(ref.Num, ref.Gen))
	}
	docDict.Set(raw.NameLiteral("K"), docKids)
	records = append(records, Record{Ref: docRef, Obj: docDict})

	rootDict := raw.Dict()
	rootDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("StructTreeRoot"))
	rootDict.Set(raw.NameLiteral("K"), raw.NewArray(raw.Ref(docRef.Num, docRef.Gen)))
	rootDict.Set(raw.NameLiteral("ParentTree"), raw.Ref(parentTreeRef.Num, parentTreeRef.Gen))
	rootDict.Set(raw.NameLiteral("ParentTreeNextKey"), raw.NumberInt(int64(maxPage(parentTree)+1)))
	roleMap := raw.Dict()
	for from, to := range dom.RoleMap() {
		roleMap.Set(raw.NameLiteral(from), raw.NameLiteral(to))
	}
	rootDict.Set(raw.NameLiteral("RoleMap"), roleMap)
	if len(idTree) > 0 {
		names := raw.NewArray()
		ids := make([]string, 0, len(idTree))
		for id := range idTree {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			ref := idTree[id]
			names.Append(raw.Str([]byte(id)))
			names.Append(raw.Ref(ref.Num, ref.Gen))
		}
		idDict := raw.Dict()
		idDict.Set(raw.NameLiteral("Names"), names)
		rootDict.Set(raw.NameLiteral("IDTree"), idDict)
	}
	records = append(records, Record{Ref: rootRef, Obj: rootDict})

	b.rootRef = rootRef
	b.log.Info("structure tree assembled",
		observability.Int("elements", len(collected)),
		observability.Int("links", len(links)),
		observability.Int("registrations", len(b.regs)))
	return Result{Records: records, RootRef: rootRef, DocumentRef: docRef}
}

// collect gathers the closed set of nodes to serialize: every registered
// node, its role-bearing ancestors (non-semantic wrappers and transparent
// inlines are skipped, never emitted), and required-presence children of
// everything collected.
func (b *TreeBuilder) collect() []*dom.Node {
	set := make(map[dom.NodeID]*dom.Node)
	for _, reg := range b.regs {
		for n := reg.Node; n != nil; n = n.Parent {
			if n.IsNonSemanticWrapper() {
				continue
			}
			if n.Role() == "" {
				continue
			}
			set[n.ID] = n
		}
	}
	// empty table cells and similar: present for structural consistency
	// even without registered content
	base := make([]*dom.Node, 0, len(set))
	for _, n := range set {
		base = append(base, n)
	}
	for _, n := range base {
		for _, child := range n.Children {
			if child.RequiresStructurePresence() {
				set[child.ID] = child
			}
		}
	}
	out := make([]*dom.Node, 0, len(set))
	for _, n := range set {
		out = append(out, n)
	}
	return out
}

// structureParent resolves the parent reference, walking past nodes that
// are not part of the collected set (wrappers, transparent inlines). A
// zero ref means the element hangs off the document wrapper.
func structureParent(n *dom.Node, elemRef map[dom.NodeID]raw.ObjectRef) raw.ObjectRef {
	for p := n.Parent; p != nil; p = p.Parent {
		if ref, ok := elemRef[p.ID]; ok {
			return ref
		}
	}
	return raw.ObjectRef{}
}

// structureChildren returns the refs of the node's immediate collected
// children, passing through non-semantic wrapper children to their own
// children.
func structureChildren(n *dom.Node, elemRef map[dom.NodeID]raw.ObjectRef) []raw.ObjectRef {
	var out []raw.ObjectRef
	var visit func(children []*dom.Node)
	visit = func(children []*dom.Node) {
		for _, c := range children {
			if ref, ok := elemRef[c.ID]; ok {
				out = append(out, ref)
				continue
			}
			if c.IsNonSemanticWrapper() || c.IsTransparentInline() {
				visit(c.Children)
			}
		}
	}
	visit(n.Children)
	return out
}

// applyExtras attaches format-specific entries: alt text for figures,
// header scoping for TH, header associations and spans for table cells.
func (b *TreeBuilder) applyExtras(n *dom.Node, ref raw.ObjectRef, dict *raw.DictObj, idTree map[string]raw.ObjectRef) {
	if n.Role() == "Figure" {
		if alt := n.Attr("alt"); alt != "" {
			dict.Set(raw.NameLiteral("Alt"), raw.Str([]byte(alt)))
		}
	}
	if n.Tag != "td" && n.Tag != "th" {
		return
	}

	attrs := raw.Dict()
	attrs.Set(raw.NameLiteral("O"), raw.NameLiteral("Table"))
	used := false

	if n.Tag == "th" {
		scope := "Column"
		switch strings.ToLower(n.Attr("scope")) {
		case "row":
			scope = "Row"
		case "col", "column":
			scope = "Column"
		}
		attrs.Set(raw.NameLiteral("Scope"), raw.NameLiteral(scope))
		used = true
		if id := n.Attr("id"); id != "" {
			dict.Set(raw.NameLiteral("ID"), raw.Str([]byte(id)))
			idTree[id] = ref
		}
	}
	if n.Tag == "td" {
		if headers := strings.Fields(n.Attr("headers")); len(headers) > 0 {
			arr := raw.NewArray()
			for _, h := range headers {
				arr.Append(raw.Str([]byte(h)))
			}
			attrs.Set(raw.NameLiteral("Headers"), arr)
			used = true
		}
	}
	if span := spanAttr(n, "rowspan"); span > 1 {
		attrs.Set(raw.NameLiteral("RowSpan"), raw.NumberInt(int64(span)))
		used = true
	}
	if span := spanAttr(n, "colspan"); span > 1 {
		attrs.Set(raw.NameLiteral("ColSpan"), raw.NumberInt(int64(span)))
		used = true
	}
	if used {
		dict.Set(raw.NameLiteral("A"), attrs)
	}
}

func spanAttr(n *dom.Node, key string) int {
	v, err := strconv.Atoi(n.Attr(key))
	if err != nil {
		return 1
	}
	return v
}

// buildParentTree emits the number tree mapping (page, MCID) to owning
// element, null-filling identifier gaps per page.
func buildParentTree(parentTree map[int]map[int]raw.ObjectRef) raw.Object {
	nums := raw.NewArray()
	pages := make([]int, 0, len(parentTree))
	for p := range parentTree {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	for _, page := range pages {
		nums.Append(raw.NumberInt(int64(page)))
		arr := raw.NewArray()
		maxMCID := -1
		for mcid := range parentTree[page] {
			if mcid > maxMCID {
				maxMCID = mcid
			}
		}
		for i := 0; i <= maxMCID; i++ {
			if ref, ok := parentTree[page][i]; ok {
				arr.Append(raw.Ref(ref.Num, ref.Gen))
			} else {
				arr.Append(raw.NullObj{})
			}
		}
		nums.Append(arr)
	}
	dict := raw.Dict()
	dict.Set(raw.NameLiteral("Nums"), nums)
	return dict
}

func maxPage(parentTree map[int]map[int]raw.ObjectRef) int {
	max := 0
	for p := range parentTree {
		if p > max {
			max = p
		}
	}
	return max
}
