package compiler

import "strconv"

// -------- PARSER CORE --------

type Parser struct {
	l *Lexer

	curToken  Token
	peekToken Token

	errors []*Error
}

func NewParser(l *Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []*Error {
	return p.errors
}

func (p *Parser) addError(e *Error) {
	p.errors = append(p.errors, e)
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) skipNewlines() {
	for p.curToken.Type == TOK_NEWLINE {
		p.nextToken()
	}
}

// expectWord consumes the current token if it is a WORD, recording a
// parse error (and returning "") otherwise. It always advances, so a
// malformed program cannot stall the parser.
func (p *Parser) expectWord(context string) string {
	if p.curToken.Type != TOK_WORD {
		p.addError(newParseError(p.curToken, "expected a name after "+context+", got "+string(p.curToken.Type)))
		return ""
	}
	w := p.curToken.Lexeme
	p.nextToken()
	return w
}

func (p *Parser) expectBracket(tt TokenType, lexeme, context string) {
	if p.curToken.Type != tt {
		p.addError(newParseError(p.curToken, "expected '"+lexeme+"' "+context+", got "+string(p.curToken.Type)))
		return
	}
	p.nextToken()
}

// -------- TOP-LEVEL PARSE --------

// ParseProgram parses the full token stream into a flat statement list.
func (p *Parser) ParseProgram() []Stmt {
	return p.parseStatements(func() bool { return p.curToken.Type == TOK_EOF })
}

func (p *Parser) parseStatements(stop func() bool) []Stmt {
	var stmts []Stmt
	for {
		p.skipNewlines()
		if stop() || p.curToken.Type == TOK_EOF {
			break
		}
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *Parser) parseStatementBlock() []Stmt {
	p.expectBracket(TOK_LBRACKET, "[", "to open a block")
	stmts := p.parseStatements(func() bool { return p.curToken.Type == TOK_RBRACKET })
	p.expectBracket(TOK_RBRACKET, "]", "to close a block")
	return stmts
}

// parseExprBlock parses a `[...]` wrapping a single expression, as used
// for the `while` condition: evaluated afresh each iteration by the
// evaluator, but parsed once here.
func (p *Parser) parseExprBlock() Expr {
	p.expectBracket(TOK_LBRACKET, "[", "to open a condition block")
	p.skipNewlines()
	e := p.parseExpr()
	p.skipNewlines()
	p.expectBracket(TOK_RBRACKET, "]", "to close a condition block")
	return e
}

// -------- STATEMENT DISPATCH --------

func (p *Parser) parseStatement() Stmt {
	tok := p.curToken
	if tok.Type == TOK_ILLEGAL {
		p.addError(newLexError(tok, "unrecognized character: "+tok.Lexeme))
		p.nextToken()
		return nil
	}
	if tok.Type != TOK_WORD {
		p.addError(newParseError(tok, "expected a command, got "+string(tok.Type)))
		p.nextToken()
		return nil
	}

	canon := resolveAlias(tok.Lexeme)
	p.nextToken()

	switch canon {
	case "forward":
		return &MoveStmt{Dir: MoveForward, Amount: p.parseExpr()}
	case "back":
		return &MoveStmt{Dir: MoveBack, Amount: p.parseExpr()}
	case "right":
		return &MoveStmt{Dir: TurnRight, Amount: p.parseExpr()}
	case "left":
		return &MoveStmt{Dir: TurnLeft, Amount: p.parseExpr()}
	case "penup":
		return &PenUpStmt{}
	case "pendown":
		return &PenDownStmt{}
	case "pencolor":
		return &PenColorStmt{Color: p.parseExpr()}
	case "pensize":
		return &PenSizeStmt{Size: p.parseExpr()}
	case "home":
		return &HomeStmt{}
	case "setxy":
		x := p.parseExpr()
		y := p.parseExpr()
		return &SetXYStmt{X: x, Y: y}
	case "setx":
		return &SetXStmt{X: p.parseExpr()}
	case "sety":
		return &SetYStmt{Y: p.parseExpr()}
	case "setheading":
		return &SetHeadingStmt{Heading: p.parseExpr()}
	case "circle":
		return &CircleStmt{Radius: p.parseExpr()}
	case "arc":
		a := p.parseExpr()
		r := p.parseExpr()
		return &ArcStmt{Angle: a, Radius: r}
	case "clearscreen":
		return &ClearScreenStmt{}
	case "hideturtle":
		return &HideTurtleStmt{}
	case "showturtle":
		return &ShowTurtleStmt{}
	case "repeat":
		count := p.parseExpr()
		body := p.parseStatementBlock()
		return &RepeatStmt{Count: count, Body: body}
	case "while":
		cond := p.parseExprBlock()
		body := p.parseStatementBlock()
		return &WhileStmt{Cond: cond, Body: body}
	case "for":
		return p.parseFor()
	case "if":
		cond := p.parseExpr()
		then := p.parseStatementBlock()
		if p.curToken.Type == TOK_WORD && toLowerASCII(p.curToken.Lexeme) == "else" {
			p.nextToken()
			els := p.parseStatementBlock()
			return &IfElseStmt{Cond: cond, Then: then, Else: els}
		}
		return &IfStmt{Cond: cond, Then: then}
	case "ifelse":
		cond := p.parseExpr()
		then := p.parseStatementBlock()
		els := p.parseStatementBlock()
		return &IfElseStmt{Cond: cond, Then: then, Else: els}
	case "to":
		return p.parseDefine()
	case "stop":
		return &StopStmt{}
	case "output":
		return &OutputStmt{Value: p.parseExpr()}
	case "make":
		name := p.expectWord("make")
		val := p.parseExpr()
		return &MakeStmt{Name: name, Value: val}
	case "local":
		name := p.expectWord("local")
		return &LocalStmt{Name: name}
	case "print":
		return &PrintStmt{Value: p.parseExpr()}
	case "type":
		return &TypeStmt{Value: p.parseExpr()}
	case "show":
		return &ShowStmt{Value: p.parseExpr()}
	default:
		args := p.collectGreedyArgs()
		return &CallStmt{Name: canon, Args: args}
	}
}

// parseFor parses: for "v start end (step)? [body]
func (p *Parser) parseFor() Stmt {
	varName := p.expectWord("for")
	start := p.parseExpr()
	end := p.parseExpr()

	var step Expr
	if p.curToken.Type != TOK_LBRACKET {
		step = p.parseExpr()
	}
	body := p.parseStatementBlock()
	return &ForStmt{Var: varName, Start: start, End: end, Step: step, Body: body}
}

// parseDefine parses: to NAME :p1 :p2 ... STATEMENTS end
func (p *Parser) parseDefine() Stmt {
	name := p.expectWord("to")

	var params []string
	for p.curToken.Type == TOK_PARAM {
		params = append(params, p.curToken.Lexeme)
		p.nextToken()
	}

	body := p.parseStatements(func() bool {
		return p.curToken.Type == TOK_WORD && toLowerASCII(p.curToken.Lexeme) == "end"
	})

	if p.curToken.Type == TOK_WORD && toLowerASCII(p.curToken.Lexeme) == "end" {
		p.nextToken()
	} else {
		p.addError(newParseError(p.curToken, "missing 'end' for procedure "+name))
	}

	return &DefineStmt{Name: toLowerASCII(name), Params: params, Body: body}
}

// -------- ARGUMENT GREEDINESS --------

// isExprStart is the single predicate shared by statement-level call
// argument collection and expression-level user-function-call argument
// collection: it never treats a Word as the start of another argument,
// so a call's argument list ends at the next command.
func isExprStart(tok Token) bool {
	switch tok.Type {
	case TOK_NUMBER, TOK_STRING, TOK_PARAM, TOK_LBRACKET, TOK_LPAREN:
		return true
	case TOK_OPERATOR:
		return tok.Lexeme == "-"
	}
	return false
}

func (p *Parser) collectGreedyArgs() []Expr {
	var args []Expr
	for isExprStart(p.curToken) {
		args = append(args, p.parseExpr())
	}
	return args
}

// -------- EXPRESSION GRAMMAR (lowest to highest precedence) --------

func (p *Parser) parseExpr() Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() Expr {
	left := p.parseAnd()
	for p.curToken.Type == TOK_WORD && toLowerASCII(p.curToken.Lexeme) == "or" {
		p.nextToken()
		right := p.parseAnd()
		left = &BinaryExpr{Op: "or", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() Expr {
	left := p.parseComparison()
	for p.curToken.Type == TOK_WORD && toLowerASCII(p.curToken.Lexeme) == "and" {
		p.nextToken()
		right := p.parseComparison()
		left = &BinaryExpr{Op: "and", Left: left, Right: right}
	}
	return left
}

// parseComparison is deliberately non-chained: at most one comparison
// operator per expression.
func (p *Parser) parseComparison() Expr {
	left := p.parseAdditive()
	if p.curToken.Type == TOK_OPERATOR && isComparisonOp(p.curToken.Lexeme) {
		op := p.curToken.Lexeme
		p.nextToken()
		right := p.parseAdditive()
		return &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left
}

func isComparisonOp(op string) bool {
	switch op {
	case "=", "<", ">", "<=", ">=", "<>":
		return true
	}
	return false
}

func (p *Parser) parseAdditive() Expr {
	left := p.parseMultiplicative()
	for p.curToken.Type == TOK_OPERATOR && (p.curToken.Lexeme == "+" || p.curToken.Lexeme == "-") {
		op := p.curToken.Lexeme
		p.nextToken()
		right := p.parseMultiplicative()
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() Expr {
	left := p.parseUnary()
	for p.curToken.Type == TOK_OPERATOR && (p.curToken.Lexeme == "*" || p.curToken.Lexeme == "/" || p.curToken.Lexeme == "%") {
		op := p.curToken.Lexeme
		p.nextToken()
		right := p.parseUnary()
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() Expr {
	if p.curToken.Type == TOK_OPERATOR && p.curToken.Lexeme == "-" {
		p.nextToken()
		return &Neg{X: p.parseUnary()}
	}
	if p.curToken.Type == TOK_WORD && toLowerASCII(p.curToken.Lexeme) == "not" {
		p.nextToken()
		return &Not{X: p.parseUnary()}
	}
	return p.parsePrimary()
}

// -------- BUILT-IN REPORTER ARITY TABLE --------

var zeroArgBuiltins = map[string]bool{
	"xcor": true, "ycor": true, "heading": true, "pendown?": true,
}

var oneArgBuiltins = map[string]bool{
	"sqrt": true, "abs": true, "int": true, "round": true,
	"sin": true, "cos": true, "tan": true,
	"first": true, "last": true, "butfirst": true, "butlast": true,
	"count": true, "thing": true, "random": true,
}

var twoArgBuiltins = map[string]bool{
	"sum": true, "difference": true, "product": true, "quotient": true,
	"remainder": true, "power": true, "item": true, "word": true,
	"towards": true, "fput": true, "lput": true,
}

func (p *Parser) parsePrimary() Expr {
	tok := p.curToken

	switch tok.Type {
	case TOK_NUMBER:
		p.nextToken()
		n, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return &NumberLit{Value: n}

	case TOK_STRING:
		p.nextToken()
		return &TextLit{Value: tok.Lexeme}

	case TOK_PARAM:
		p.nextToken()
		return &VarRef{Name: tok.Lexeme}

	case TOK_LPAREN:
		p.nextToken()
		e := p.parseExpr()
		p.expectBracket(TOK_RPAREN, ")", "to close a parenthesized expression")
		return e

	case TOK_LBRACKET:
		return p.parseListLiteral()

	case TOK_WORD:
		return p.parseWordExpr()

	case TOK_ILLEGAL:
		p.addError(newLexError(tok, "unrecognized character: "+tok.Lexeme))
		p.nextToken()
		return &TextLit{Value: ""}

	default:
		p.addError(newParseError(tok, "unexpected token in expression: "+string(tok.Type)))
		p.nextToken()
		return &TextLit{Value: ""}
	}
}

func (p *Parser) parseWordExpr() Expr {
	tok := p.curToken
	lower := toLowerASCII(tok.Lexeme)

	switch lower {
	case "list":
		p.nextToken()
		return &Reporter{Name: "list", Args: p.collectGreedyArgs()}
	case "sentence":
		p.nextToken()
		a := p.parseExpr()
		b := p.parseExpr()
		return &Reporter{Name: "sentence", Args: []Expr{a, b}}
	case "atan":
		p.nextToken()
		a := p.parseExpr()
		if isExprStart(p.curToken) {
			b := p.parseExpr()
			return &Reporter{Name: "atan", Args: []Expr{a, b}}
		}
		return &Reporter{Name: "atan", Args: []Expr{a}}
	}

	if zeroArgBuiltins[lower] {
		p.nextToken()
		return &Reporter{Name: lower, Args: nil}
	}
	if oneArgBuiltins[lower] {
		p.nextToken()
		return &Reporter{Name: lower, Args: []Expr{p.parseExpr()}}
	}
	if twoArgBuiltins[lower] {
		p.nextToken()
		a := p.parseExpr()
		b := p.parseExpr()
		return &Reporter{Name: lower, Args: []Expr{a, b}}
	}

	// User-defined function call: greedily collects its arguments, same
	// predicate as statement-level calls.
	p.nextToken()
	return &FunCall{Name: lower, Args: p.collectGreedyArgs()}
}

// parseListLiteral parses `[...]` in expression/list-item position.
// Items: numbers as numbers, parameter references (evaluated each time
// the literal is evaluated), words as Text atoms (never variables), and
// nested lists recursively.
func (p *Parser) parseListLiteral() Expr {
	p.expectBracket(TOK_LBRACKET, "[", "to open a list literal")

	var items []Expr
	for p.curToken.Type != TOK_RBRACKET && p.curToken.Type != TOK_EOF {
		if p.curToken.Type == TOK_NEWLINE {
			p.nextToken()
			continue
		}
		switch p.curToken.Type {
		case TOK_NUMBER:
			n, _ := strconv.ParseFloat(p.curToken.Lexeme, 64)
			items = append(items, &NumberLit{Value: n})
			p.nextToken()
		case TOK_PARAM:
			items = append(items, &VarRef{Name: p.curToken.Lexeme})
			p.nextToken()
		case TOK_STRING, TOK_WORD:
			items = append(items, &TextLit{Value: p.curToken.Lexeme})
			p.nextToken()
		case TOK_LBRACKET:
			items = append(items, p.parseListLiteral())
		default:
			p.addError(newParseError(p.curToken, "unexpected token in list literal: "+string(p.curToken.Type)))
			p.nextToken()
		}
	}

	p.expectBracket(TOK_RBRACKET, "]", "to close a list literal")
	return &ListLit{Items: items}
}
