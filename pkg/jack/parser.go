package jack

// Parse turns a token stream lexed from a single Jack source file into its Class AST,
// the recursive-descent grammar of spec.md section 4.2 built on the generic
// combinators in combinators.go. A Jack compilation unit is always exactly one class.
func Parse(file string, tokens []Token) (Class, error) {
	class, c, err := parseClass(file, newCursor(tokens))
	if err != nil {
		return Class{}, err
	}
	if !c.done() {
		tok, _ := c.peek()
		return Class{}, &ParseError{File: file, Line: tok.Line, Lexeme: tok.String(), Expected: "end of file"}
	}
	return class, nil
}

// ---------------------------------------------------------------------------
// Low-level token matchers, built with the generic combinators.

func tokSymbol(s string) parser[Token] {
	return satisfy(func(t Token) bool { return t.Kind == SymbolTok && t.Text == s })
}

func tokKeyword(k string) parser[Token] {
	return satisfy(func(t Token) bool { return t.Kind == KeywordTok && t.Text == k })
}

func tokAnyKeyword(ks ...string) parser[Token] {
	alts := make([]parser[Token], len(ks))
	for i, k := range ks {
		alts[i] = tokKeyword(k)
	}
	return Choice(alts...)
}

func tokIdentifier() parser[Token] {
	return satisfy(func(t Token) bool { return t.Kind == IdentifierTok })
}

func tokIntConst() parser[Token] {
	return satisfy(func(t Token) bool { return t.Kind == IntConstTok })
}

func tokStringConst() parser[Token] {
	return satisfy(func(t Token) bool { return t.Kind == StringConstTok })
}

// require runs p and turns a failure into a positioned ParseError, the bridge between
// the bool-returning combinators and the error-returning recursive-descent grammar.
func require[T any](p parser[T], file string, c cursor, expected string) (T, cursor, error) {
	if v, next, ok := p(c); ok {
		return v, next, nil
	}
	var zero T
	tok, ok := c.peek()
	if !ok {
		return zero, c, &ParseError{File: file, Expected: expected, Lexeme: "<EOF>"}
	}
	return zero, c, &ParseError{File: file, Line: tok.Line, Lexeme: tok.String(), Expected: expected}
}

// ---------------------------------------------------------------------------
// Grammar

func parseClass(file string, c cursor) (Class, cursor, error) {
	_, c, err := require(tokKeyword("class"), file, c, "'class'")
	if err != nil {
		return Class{}, c, err
	}
	name, c, err := require(tokIdentifier(), file, c, "class name")
	if err != nil {
		return Class{}, c, err
	}
	if _, c, err = require(tokSymbol("{"), file, c, "'{'"); err != nil {
		return Class{}, c, err
	}

	class := Class{Name: name.Text}

	for {
		if _, _, ok := tokAnyKeyword("static", "field")(c); ok {
			var vars []Variable
			vars, c, err = parseClassVarDec(file, c)
			if err != nil {
				return Class{}, c, err
			}
			for _, v := range vars {
				class.Fields.Set(v.Name, v)
			}
			continue
		}
		break
	}

	for {
		if _, _, ok := tokAnyKeyword("constructor", "function", "method")(c); !ok {
			break
		}
		var sub Subroutine
		sub, c, err = parseSubroutineDec(file, c)
		if err != nil {
			return Class{}, c, err
		}
		class.Subroutines.Set(sub.Name, sub)
	}

	if _, c, err = require(tokSymbol("}"), file, c, "'}'"); err != nil {
		return Class{}, c, err
	}
	return class, c, nil
}

func parseType(file string, c cursor) (DataType, cursor, error) {
	if tok, next, ok := tokAnyKeyword("int", "char", "boolean")(c); ok {
		return PrimitiveOrObject(tok.Text), next, nil
	}
	tok, next, err := require(tokIdentifier(), file, c, "type name")
	if err != nil {
		return DataType{}, c, err
	}
	return PrimitiveOrObject(tok.Text), next, nil
}

func parseClassVarDec(file string, c cursor) ([]Variable, cursor, error) {
	kindTok, c, err := require(tokAnyKeyword("static", "field"), file, c, "'static' or 'field'")
	if err != nil {
		return nil, c, err
	}
	varType := Static
	if kindTok.Text == "field" {
		varType = Field
	}

	dataType, c, err := parseType(file, c)
	if err != nil {
		return nil, c, err
	}

	names, c, err := parseNameList(file, c)
	if err != nil {
		return nil, c, err
	}
	if _, c, err = require(tokSymbol(";"), file, c, "';'"); err != nil {
		return nil, c, err
	}

	vars := make([]Variable, len(names))
	for i, n := range names {
		vars[i] = Variable{Name: n, VarType: varType, DataType: dataType}
	}
	return vars, c, nil
}

func parseNameList(file string, c cursor) ([]string, cursor, error) {
	first, c, err := require(tokIdentifier(), file, c, "identifier")
	if err != nil {
		return nil, c, err
	}
	names := []string{first.Text}
	for {
		if _, next, ok := tokSymbol(",")(c); ok {
			c = next
			tok, next2, err := require(tokIdentifier(), file, c, "identifier")
			if err != nil {
				return nil, c, err
			}
			names = append(names, tok.Text)
			c = next2
			continue
		}
		break
	}
	return names, c, nil
}

func parseSubroutineDec(file string, c cursor) (Subroutine, cursor, error) {
	kindTok, c, err := require(tokAnyKeyword("constructor", "function", "method"), file, c, "subroutine kind")
	if err != nil {
		return Subroutine{}, c, err
	}
	kind := map[string]SubroutineType{"constructor": Constructor, "function": Function, "method": Method}[kindTok.Text]

	var returnType DataType
	if _, next, ok := tokKeyword("void")(c); ok {
		returnType = DataType{Main: Void}
		c = next
	} else {
		returnType, c, err = parseType(file, c)
		if err != nil {
			return Subroutine{}, c, err
		}
	}

	name, c, err := require(tokIdentifier(), file, c, "subroutine name")
	if err != nil {
		return Subroutine{}, c, err
	}

	if _, c, err = require(tokSymbol("("), file, c, "'('"); err != nil {
		return Subroutine{}, c, err
	}
	params, c, err := parseParameterList(file, c)
	if err != nil {
		return Subroutine{}, c, err
	}
	if _, c, err = require(tokSymbol(")"), file, c, "')'"); err != nil {
		return Subroutine{}, c, err
	}

	body, c, err := parseSubroutineBody(file, c)
	if err != nil {
		return Subroutine{}, c, err
	}

	sub := Subroutine{Name: name.Text, Type: kind, Return: returnType, Statements: body.statements, Locals: body.locals}
	for _, p := range params {
		sub.Arguments.Set(p.Name, p)
	}
	return sub, c, nil
}

func parseParameterList(file string, c cursor) ([]Variable, cursor, error) {
	if _, _, ok := tokSymbol(")")(c); ok {
		return nil, c, nil
	}

	var params []Variable
	for {
		dataType, next, err := parseType(file, c)
		if err != nil {
			return nil, c, err
		}
		c = next
		name, next, err := require(tokIdentifier(), file, c, "parameter name")
		if err != nil {
			return nil, c, err
		}
		c = next
		params = append(params, Variable{Name: name.Text, VarType: Parameter, DataType: dataType})

		if _, next, ok := tokSymbol(",")(c); ok {
			c = next
			continue
		}
		break
	}
	return params, c, nil
}

type subroutineBody struct {
	locals     []Variable
	statements []Statement
}

func parseSubroutineBody(file string, c cursor) (subroutineBody, cursor, error) {
	if _, c2, err := require(tokSymbol("{"), file, c, "'{'"); err != nil {
		return subroutineBody{}, c, err
	} else {
		c = c2
	}

	var locals []Variable
	for {
		if _, _, ok := tokKeyword("var")(c); !ok {
			break
		}
		vars, next, err := parseVarDec(file, c)
		if err != nil {
			return subroutineBody{}, c, err
		}
		locals = append(locals, vars...)
		c = next
	}

	stmts, c, err := parseStatements(file, c)
	if err != nil {
		return subroutineBody{}, c, err
	}

	if _, c, err = require(tokSymbol("}"), file, c, "'}'"); err != nil {
		return subroutineBody{}, c, err
	}
	return subroutineBody{locals: locals, statements: stmts}, c, nil
}

func parseVarDec(file string, c cursor) ([]Variable, cursor, error) {
	if _, c2, err := require(tokKeyword("var"), file, c, "'var'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	dataType, c, err := parseType(file, c)
	if err != nil {
		return nil, c, err
	}
	names, c, err := parseNameList(file, c)
	if err != nil {
		return nil, c, err
	}
	if _, c, err = require(tokSymbol(";"), file, c, "';'"); err != nil {
		return nil, c, err
	}
	vars := make([]Variable, len(names))
	for i, n := range names {
		vars[i] = Variable{Name: n, VarType: Local, DataType: dataType}
	}
	return vars, c, nil
}

func parseStatements(file string, c cursor) ([]Statement, cursor, error) {
	var stmts []Statement
	for {
		tok, ok := c.peek()
		if !ok || tok.Kind != KeywordTok {
			break
		}
		var stmt Statement
		var err error
		switch tok.Text {
		case "let":
			stmt, c, err = parseLetStatement(file, c)
		case "if":
			stmt, c, err = parseIfStatement(file, c)
		case "while":
			stmt, c, err = parseWhileStatement(file, c)
		case "do":
			stmt, c, err = parseDoStatement(file, c)
		case "return":
			stmt, c, err = parseReturnStatement(file, c)
		default:
			return stmts, c, nil
		}
		if err != nil {
			return nil, c, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, c, nil
}

func parseLetStatement(file string, c cursor) (Statement, cursor, error) {
	if _, c2, err := require(tokKeyword("let"), file, c, "'let'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	name, c, err := require(tokIdentifier(), file, c, "variable name")
	if err != nil {
		return nil, c, err
	}

	var lhs Expression = VarExpr{Var: name.Text}
	if _, next, ok := tokSymbol("[")(c); ok {
		c = next
		index, next, err := parseExpression(file, c)
		if err != nil {
			return nil, c, err
		}
		c = next
		if _, c2, err := require(tokSymbol("]"), file, c, "']'"); err != nil {
			return nil, c, err
		} else {
			c = c2
		}
		lhs = ArrayExpr{Var: name.Text, Index: index}
	}

	if _, c2, err := require(tokSymbol("="), file, c, "'='"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	rhs, c, err := parseExpression(file, c)
	if err != nil {
		return nil, c, err
	}
	if _, c, err = require(tokSymbol(";"), file, c, "';'"); err != nil {
		return nil, c, err
	}
	return LetStmt{Lhs: lhs, Rhs: rhs}, c, nil
}

func parseIfStatement(file string, c cursor) (Statement, cursor, error) {
	if _, c2, err := require(tokKeyword("if"), file, c, "'if'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	if _, c2, err := require(tokSymbol("("), file, c, "'('"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	cond, c, err := parseExpression(file, c)
	if err != nil {
		return nil, c, err
	}
	if _, c2, err := require(tokSymbol(")"), file, c, "')'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	if _, c2, err := require(tokSymbol("{"), file, c, "'{'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	thenBlock, c, err := parseStatements(file, c)
	if err != nil {
		return nil, c, err
	}
	if _, c2, err := require(tokSymbol("}"), file, c, "'}'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}

	var elseBlock []Statement
	if _, next, ok := tokKeyword("else")(c); ok {
		c = next
		if _, c2, err := require(tokSymbol("{"), file, c, "'{'"); err != nil {
			return nil, c, err
		} else {
			c = c2
		}
		elseBlock, c, err = parseStatements(file, c)
		if err != nil {
			return nil, c, err
		}
		if _, c2, err := require(tokSymbol("}"), file, c, "'}'"); err != nil {
			return nil, c, err
		} else {
			c = c2
		}
	}

	return IfStmt{Condition: cond, ThenBlock: thenBlock, ElseBlock: elseBlock}, c, nil
}

func parseWhileStatement(file string, c cursor) (Statement, cursor, error) {
	if _, c2, err := require(tokKeyword("while"), file, c, "'while'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	if _, c2, err := require(tokSymbol("("), file, c, "'('"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	cond, c, err := parseExpression(file, c)
	if err != nil {
		return nil, c, err
	}
	if _, c2, err := require(tokSymbol(")"), file, c, "')'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	if _, c2, err := require(tokSymbol("{"), file, c, "'{'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	block, c, err := parseStatements(file, c)
	if err != nil {
		return nil, c, err
	}
	if _, c2, err := require(tokSymbol("}"), file, c, "'}'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	return WhileStmt{Condition: cond, Block: block}, c, nil
}

func parseDoStatement(file string, c cursor) (Statement, cursor, error) {
	if _, c2, err := require(tokKeyword("do"), file, c, "'do'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	call, c, err := parseSubroutineCall(file, c)
	if err != nil {
		return nil, c, err
	}
	if _, c, err = require(tokSymbol(";"), file, c, "';'"); err != nil {
		return nil, c, err
	}
	return DoStmt{FuncCall: call}, c, nil
}

func parseReturnStatement(file string, c cursor) (Statement, cursor, error) {
	if _, c2, err := require(tokKeyword("return"), file, c, "'return'"); err != nil {
		return nil, c, err
	} else {
		c = c2
	}
	if _, next, ok := tokSymbol(";")(c); ok {
		return ReturnStmt{}, next, nil
	}
	expr, c, err := parseExpression(file, c)
	if err != nil {
		return nil, c, err
	}
	if _, c, err = require(tokSymbol(";"), file, c, "';'"); err != nil {
		return nil, c, err
	}
	return ReturnStmt{Expr: expr}, c, nil
}

var binaryOps = map[string]ExprType{
	"+": Plus, "-": Minus, "*": Multiply, "/": Divide,
	"&": BoolAnd, "|": BoolOr, "<": LessThan, ">": GreatThan, "=": Equal,
}

func parseExpression(file string, c cursor) (Expression, cursor, error) {
	lhs, c, err := parseTerm(file, c)
	if err != nil {
		return nil, c, err
	}
	for {
		tok, ok := c.peek()
		if !ok || tok.Kind != SymbolTok {
			break
		}
		op, known := binaryOps[tok.Text]
		if !known {
			break
		}
		c = c.advance()
		rhs, next, err := parseTerm(file, c)
		if err != nil {
			return nil, c, err
		}
		c = next
		lhs = BinaryExpr{Type: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, c, nil
}

func parseTerm(file string, c cursor) (Expression, cursor, error) {
	tok, ok := c.peek()
	if !ok {
		return nil, c, &ParseError{File: file, Expected: "expression", Lexeme: "<EOF>"}
	}

	switch tok.Kind {
	case IntConstTok:
		return LiteralExpr{Type: DataType{Main: Int}, Value: tok.Text}, c.advance(), nil
	case StringConstTok:
		return LiteralExpr{Type: DataType{Main: Object, Subtype: "String"}, Value: tok.StrVal}, c.advance(), nil
	case KeywordTok:
		switch tok.Text {
		case "true", "false":
			return LiteralExpr{Type: DataType{Main: Bool}, Value: tok.Text}, c.advance(), nil
		case "null":
			return LiteralExpr{Type: DataType{Main: Object}, Value: "null"}, c.advance(), nil
		case "this":
			return VarExpr{Var: "this"}, c.advance(), nil
		}
		return nil, c, &ParseError{File: file, Line: tok.Line, Lexeme: tok.Text, Expected: "expression"}
	case SymbolTok:
		switch tok.Text {
		case "(":
			c = c.advance()
			inner, next, err := parseExpression(file, c)
			if err != nil {
				return nil, c, err
			}
			c = next
			if _, c2, err := require(tokSymbol(")"), file, c, "')'"); err != nil {
				return nil, c, err
			} else {
				c = c2
			}
			return inner, c, nil
		case "-":
			c = c.advance()
			rhs, next, err := parseTerm(file, c)
			if err != nil {
				return nil, c, err
			}
			return UnaryExpr{Type: Minus, Rhs: rhs}, next, nil
		case "~":
			c = c.advance()
			rhs, next, err := parseTerm(file, c)
			if err != nil {
				return nil, c, err
			}
			return UnaryExpr{Type: BoolNot, Rhs: rhs}, next, nil
		}
		return nil, c, &ParseError{File: file, Line: tok.Line, Lexeme: tok.Text, Expected: "expression"}
	case IdentifierTok:
		after := c.advance()
		if lookahead, ok := after.peek(); ok && lookahead.Kind == SymbolTok && lookahead.Text == "[" {
			c = after.advance()
			index, next, err := parseExpression(file, c)
			if err != nil {
				return nil, c, err
			}
			c = next
			if _, c2, err := require(tokSymbol("]"), file, c, "']'"); err != nil {
				return nil, c, err
			} else {
				c = c2
			}
			return ArrayExpr{Var: tok.Text, Index: index}, c, nil
		}
		if lookahead, ok := after.peek(); ok && lookahead.Kind == SymbolTok && (lookahead.Text == "(" || lookahead.Text == ".") {
			return parseSubroutineCall(file, c)
		}
		return VarExpr{Var: tok.Text}, after, nil
	}

	return nil, c, &ParseError{File: file, Line: tok.Line, Lexeme: tok.Text, Expected: "expression"}
}

func parseSubroutineCall(file string, c cursor) (FuncCallExpr, cursor, error) {
	name, c, err := require(tokIdentifier(), file, c, "subroutine or variable name")
	if err != nil {
		return FuncCallExpr{}, c, err
	}

	call := FuncCallExpr{FuncName: name.Text}
	if _, next, ok := tokSymbol(".")(c); ok {
		c = next
		member, next, err := require(tokIdentifier(), file, c, "subroutine name")
		if err != nil {
			return FuncCallExpr{}, c, err
		}
		c = next
		call = FuncCallExpr{IsExtCall: true, Var: name.Text, FuncName: member.Text}
	}

	if _, c2, err := require(tokSymbol("("), file, c, "'('"); err != nil {
		return FuncCallExpr{}, c, err
	} else {
		c = c2
	}
	args, c, err := parseExpressionList(file, c)
	if err != nil {
		return FuncCallExpr{}, c, err
	}
	if _, c, err = require(tokSymbol(")"), file, c, "')'"); err != nil {
		return FuncCallExpr{}, c, err
	}

	call.Arguments = args
	return call, c, nil
}

func parseExpressionList(file string, c cursor) ([]Expression, cursor, error) {
	if _, _, ok := tokSymbol(")")(c); ok {
		return nil, c, nil
	}
	var args []Expression
	for {
		expr, next, err := parseExpression(file, c)
		if err != nil {
			return nil, c, err
		}
		c = next
		args = append(args, expr)
		if _, next, ok := tokSymbol(",")(c); ok {
			c = next
			continue
		}
		break
	}
	return args, c, nil
}
