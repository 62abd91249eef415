package parse

import (
	"github.com/pyritelang/pyrite/pkg/diag"
)

// Node is the interface of all syntax tree nodes. Nodes are immutable once
// produced and carry the byte range of the text they were parsed from; they
// hold no parent references.
type Node interface {
	diag.Ranger
	// Kind returns the node kind, used by the security policy to gate
	// evaluation.
	Kind() Kind
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Block is a sequence of statements at one indentation level.
type Block []Stmt

// Kind enumerates the node kinds. The set is closed: the evaluator's
// dispatch and the security policy's tables are both total over it.
type Kind int

const (
	// Expressions.
	KindLiteral Kind = iota
	KindName
	KindTuple
	KindList
	KindDict
	KindSet
	KindBinOp
	KindUnaryOp
	KindBoolOp
	KindCompare
	KindCall
	KindAttribute
	KindSubscript
	KindSlice
	KindIfExp
	KindListComp
	KindDictComp
	KindSetComp
	KindGeneratorExp
	KindLambda
	KindYield
	KindStarred

	// Statements.
	KindExprStmt
	KindAssign
	KindAugAssign
	KindIf
	KindWhile
	KindFor
	KindBreak
	KindContinue
	KindPass
	KindReturn
	KindDel
	KindFunctionDef
	KindTry
	KindRaise
	KindAssert
	KindImport
	KindImportFrom
	KindClassDef
	KindGlobal
	KindNonlocal
	KindWith
)

var kindNames = [...]string{
	KindLiteral:      "literal",
	KindName:         "name",
	KindTuple:        "tuple display",
	KindList:         "list display",
	KindDict:         "dict display",
	KindSet:          "set display",
	KindBinOp:        "binary operation",
	KindUnaryOp:      "unary operation",
	KindBoolOp:       "boolean operation",
	KindCompare:      "comparison",
	KindCall:         "call",
	KindAttribute:    "attribute access",
	KindSubscript:    "subscript",
	KindSlice:        "slice",
	KindIfExp:        "conditional expression",
	KindListComp:     "list comprehension",
	KindDictComp:     "dict comprehension",
	KindSetComp:      "set comprehension",
	KindGeneratorExp: "generator expression",
	KindLambda:       "lambda expression",
	KindYield:        "yield expression",
	KindStarred:      "argument unpacking",
	KindExprStmt:     "expression statement",
	KindAssign:       "assignment",
	KindAugAssign:    "augmented assignment",
	KindIf:           "if statement",
	KindWhile:        "while loop",
	KindFor:          "for loop",
	KindBreak:        "break statement",
	KindContinue:     "continue statement",
	KindPass:         "pass statement",
	KindReturn:       "return statement",
	KindDel:          "del statement",
	KindFunctionDef:  "function definition",
	KindTry:          "try statement",
	KindRaise:        "raise statement",
	KindAssert:       "assert statement",
	KindImport:       "import statement",
	KindImportFrom:   "import statement",
	KindClassDef:     "class definition",
	KindGlobal:       "global statement",
	KindNonlocal:     "nonlocal statement",
	KindWith:         "with statement",
}

// String returns a human-readable description of the kind, used in error
// messages ("use of import statement is not allowed").
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown node"
	}
	return kindNames[k]
}

// Literal is a literal value: None, a bool, an int (possibly *big.Int), a
// float or a string, produced directly by the tokenizer.
type Literal struct {
	diag.Ranging
	Value any
}

// Name is an identifier in an expression position.
type Name struct {
	diag.Ranging
	Name string
}

// Tuple is a tuple display, including the bare comma-separated form.
type Tuple struct {
	diag.Ranging
	Elems []Expr
}

// List is a list display.
type List struct {
	diag.Ranging
	Elems []Expr
}

// Set is a set display. The empty form does not exist ({} is a dict).
type Set struct {
	diag.Ranging
	Elems []Expr
}

// Dict is a dict display. Keys and Values are parallel.
type Dict struct {
	diag.Ranging
	Keys   []Expr
	Values []Expr
}

// BinOp is a binary arithmetic or bitwise operation. Op is the source
// operator text: + - * / // % ** << >> | ^ &.
type BinOp struct {
	diag.Ranging
	Op    string
	Left  Expr
	Right Expr
}

// UnaryOp is a unary operation. Op is one of - + ~ not.
type UnaryOp struct {
	diag.Ranging
	Op      string
	Operand Expr
}

// BoolOp is a short-circuiting boolean operation. Op is "and" or "or";
// Values has at least two elements.
type BoolOp struct {
	diag.Ranging
	Op     string
	Values []Expr
}

// Compare is a chained comparison: Left Ops[0] Operands[0] Ops[1] ... Each op
// is one of < <= > >= == != in "not in" is "is not".
type Compare struct {
	diag.Ranging
	Left     Expr
	Ops      []string
	Operands []Expr
}

// Call is a function call with positional and keyword arguments.
// KeywordNames and KeywordValues are parallel.
type Call struct {
	diag.Ranging
	Func          Expr
	Args          []Expr
	KeywordNames  []string
	KeywordValues []Expr
}

// Attribute is an attribute access: Object.Attr.
type Attribute struct {
	diag.Ranging
	Object Expr
	Attr   string
	// AttrRange is the range of the attribute name alone, for error
	// reporting.
	AttrRange diag.Ranging
}

// Subscript is an index or slice access: Object[Index]. For slices, Index is
// a *Slice.
type Subscript struct {
	diag.Ranging
	Object Expr
	Index  Expr
}

// Slice is the a:b:c form inside a subscript. Any of the three may be nil.
type Slice struct {
	diag.Ranging
	Low  Expr
	High Expr
	Step Expr
}

// IfExp is the conditional expression: Then if Cond else Else.
type IfExp struct {
	diag.Ranging
	Cond Expr
	Then Expr
	Else Expr
}

// CompClause is one "for target in iter [if cond ...]" clause of a
// comprehension.
type CompClause struct {
	Target Expr
	Iter   Expr
	Ifs    []Expr
}

// ListComp is a list comprehension.
type ListComp struct {
	diag.Ranging
	Elem    Expr
	Clauses []CompClause
}

// SetComp is a set comprehension.
type SetComp struct {
	diag.Ranging
	Elem    Expr
	Clauses []CompClause
}

// DictComp is a dict comprehension.
type DictComp struct {
	diag.Ranging
	Key     Expr
	Value   Expr
	Clauses []CompClause
}

// GeneratorExp is a generator expression. It parses but is always denied by
// the security policy.
type GeneratorExp struct {
	diag.Ranging
	Elem    Expr
	Clauses []CompClause
}

// Lambda is a lambda expression. It parses but is always denied by the
// security policy.
type Lambda struct {
	diag.Ranging
	Params []Param
	Body   Expr
}

// Yield is a yield expression. It parses but is always denied by the
// security policy.
type Yield struct {
	diag.Ranging
	Value Expr
}

// Starred is *value or **value in a call or display. It parses but is always
// denied by the security policy.
type Starred struct {
	diag.Ranging
	Value Expr
}

// ExprStmt is an expression evaluated for its value or effect.
type ExprStmt struct {
	diag.Ranging
	X Expr
}

// Assign is an assignment, possibly chained (a = b = expr) and with tuple or
// list unpacking targets.
type Assign struct {
	diag.Ranging
	Targets []Expr
	Value   Expr
}

// AugAssign is an augmented assignment. Op is the operator without the
// trailing =.
type AugAssign struct {
	diag.Ranging
	Target Expr
	Op     string
	Value  Expr
}

// If is an if statement. An elif chain parses as a nested If in Else.
type If struct {
	diag.Ranging
	Cond Expr
	Body Block
	Else Block
}

// While is a while loop with an optional else block.
type While struct {
	diag.Ranging
	Cond Expr
	Body Block
	Else Block
}

// For is a for loop with an optional else block.
type For struct {
	diag.Ranging
	Target Expr
	Iter   Expr
	Body   Block
	Else   Block
}

// Break is a break statement.
type Break struct {
	diag.Ranging
}

// Continue is a continue statement.
type Continue struct {
	diag.Ranging
}

// Pass is a pass statement.
type Pass struct {
	diag.Ranging
}

// Return is a return statement with an optional value.
type Return struct {
	diag.Ranging
	Value Expr
}

// Del is a del statement.
type Del struct {
	diag.Ranging
	Targets []Expr
}

// Param is one parameter of a function definition, with an optional default
// expression.
type Param struct {
	diag.Ranging
	Name    string
	Default Expr
}

// FunctionDef is a def statement. Decorators, if any, cause the security
// policy to reject the definition.
type FunctionDef struct {
	diag.Ranging
	Name       string
	Params     []Param
	Body       Block
	Decorators []Expr
}

// ExceptClause is one except clause of a try statement. Kinds lists the
// error-kind names to match; empty Kinds is a bare except. Name is the
// identifier after "as", or empty.
type ExceptClause struct {
	diag.Ranging
	Kinds []string
	Name  string
	Body  Block
}

// Try is a try statement.
type Try struct {
	diag.Ranging
	Body    Block
	Excepts []ExceptClause
	Else    Block
	Finally Block
}

// Raise is a raise statement. Exc is nil for a bare raise.
type Raise struct {
	diag.Ranging
	Exc Expr
}

// Assert is an assert statement with an optional message expression.
type Assert struct {
	diag.Ranging
	Cond Expr
	Msg  Expr
}

// Import is an import statement. It parses but is always denied by the
// security policy.
type Import struct {
	diag.Ranging
	Names []string
}

// ImportFrom is a from-import statement. It parses but is always denied by
// the security policy.
type ImportFrom struct {
	diag.Ranging
	Module string
	Names  []string
}

// ClassDef is a class definition. It parses but is always denied by the
// security policy; the body is consumed without interpretation.
type ClassDef struct {
	diag.Ranging
	Name string
	Body Block
}

// Global is a global statement. It parses but is always denied by the
// security policy.
type Global struct {
	diag.Ranging
	Names []string
}

// Nonlocal is a nonlocal statement. It parses but is always denied by the
// security policy.
type Nonlocal struct {
	diag.Ranging
	Names []string
}

// With is a with statement. It parses but is always denied by the security
// policy.
type With struct {
	diag.Ranging
	Items []Expr
	Body  Block
}

func (*Literal) Kind() Kind      { return KindLiteral }
func (*Name) Kind() Kind         { return KindName }
func (*Tuple) Kind() Kind        { return KindTuple }
func (*List) Kind() Kind         { return KindList }
func (*Dict) Kind() Kind         { return KindDict }
func (*Set) Kind() Kind          { return KindSet }
func (*BinOp) Kind() Kind        { return KindBinOp }
func (*UnaryOp) Kind() Kind      { return KindUnaryOp }
func (*BoolOp) Kind() Kind       { return KindBoolOp }
func (*Compare) Kind() Kind      { return KindCompare }
func (*Call) Kind() Kind         { return KindCall }
func (*Attribute) Kind() Kind    { return KindAttribute }
func (*Subscript) Kind() Kind    { return KindSubscript }
func (*Slice) Kind() Kind        { return KindSlice }
func (*IfExp) Kind() Kind        { return KindIfExp }
func (*ListComp) Kind() Kind     { return KindListComp }
func (*DictComp) Kind() Kind     { return KindDictComp }
func (*SetComp) Kind() Kind      { return KindSetComp }
func (*GeneratorExp) Kind() Kind { return KindGeneratorExp }
func (*Lambda) Kind() Kind       { return KindLambda }
func (*Yield) Kind() Kind        { return KindYield }
func (*Starred) Kind() Kind      { return KindStarred }
func (*ExprStmt) Kind() Kind     { return KindExprStmt }
func (*Assign) Kind() Kind       { return KindAssign }
func (*AugAssign) Kind() Kind    { return KindAugAssign }
func (*If) Kind() Kind           { return KindIf }
func (*While) Kind() Kind        { return KindWhile }
func (*For) Kind() Kind          { return KindFor }
func (*Break) Kind() Kind        { return KindBreak }
func (*Continue) Kind() Kind     { return KindContinue }
func (*Pass) Kind() Kind         { return KindPass }
func (*Return) Kind() Kind       { return KindReturn }
func (*Del) Kind() Kind          { return KindDel }
func (*FunctionDef) Kind() Kind  { return KindFunctionDef }
func (*Try) Kind() Kind          { return KindTry }
func (*Raise) Kind() Kind        { return KindRaise }
func (*Assert) Kind() Kind       { return KindAssert }
func (*Import) Kind() Kind       { return KindImport }
func (*ImportFrom) Kind() Kind   { return KindImportFrom }
func (*ClassDef) Kind() Kind     { return KindClassDef }
func (*Global) Kind() Kind       { return KindGlobal }
func (*Nonlocal) Kind() Kind     { return KindNonlocal }
func (*With) Kind() Kind         { return KindWith }

func (*Literal) exprNode()      {}
func (*Name) exprNode()         {}
func (*Tuple) exprNode()        {}
func (*List) exprNode()         {}
func (*Dict) exprNode()         {}
func (*Set) exprNode()          {}
func (*BinOp) exprNode()        {}
func (*UnaryOp) exprNode()      {}
func (*BoolOp) exprNode()       {}
func (*Compare) exprNode()      {}
func (*Call) exprNode()         {}
func (*Attribute) exprNode()    {}
func (*Subscript) exprNode()    {}
func (*Slice) exprNode()        {}
func (*IfExp) exprNode()        {}
func (*ListComp) exprNode()     {}
func (*SetComp) exprNode()      {}
func (*DictComp) exprNode()     {}
func (*GeneratorExp) exprNode() {}
func (*Lambda) exprNode()       {}
func (*Yield) exprNode()        {}
func (*Starred) exprNode()      {}

func (*ExprStmt) stmtNode()    {}
func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*For) stmtNode()         {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Pass) stmtNode()        {}
func (*Return) stmtNode()      {}
func (*Del) stmtNode()         {}
func (*FunctionDef) stmtNode() {}
func (*Try) stmtNode()         {}
func (*Raise) stmtNode()       {}
func (*Assert) stmtNode()      {}
func (*Import) stmtNode()      {}
func (*ImportFrom) stmtNode()  {}
func (*ClassDef) stmtNode()    {}
func (*Global) stmtNode()      {}
func (*Nonlocal) stmtNode()    {}
func (*With) stmtNode()        {}
