// Package runnergen emits the strongly-typed Go wrappers around the
// generated queries: one file per model plus a shared base file. Parameter
// struct fields follow each query's binding order exactly, so values reach
// the driver positionally without the caller re-deriving the binding list.
package runnergen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"github.com/iancoleman/strcase"

	"github.com/tenantsql/tenantsql/model"
	"github.com/tenantsql/tenantsql/querygen"
)

const header = "Code generated by tenantsql. DO NOT EDIT."

// BaseFile emits the shared Querier interface and Queries struct.
func BaseFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(header)

	f.Comment("Querier is the interface generated queries execute against.")
	f.Type().Id("Querier").Interface(
		jen.Id("ExecContext").Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("query").String(),
			jen.Id("args").Op("...").Any(),
		).Params(jen.Qual("database/sql", "Result"), jen.Error()),
		jen.Id("QueryContext").Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("query").String(),
			jen.Id("args").Op("...").Any(),
		).Params(jen.Op("*").Qual("database/sql", "Rows"), jen.Error()),
		jen.Id("QueryRowContext").Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("query").String(),
			jen.Id("args").Op("...").Any(),
		).Op("*").Qual("database/sql", "Row"),
	)
	f.Line()

	f.Comment("Queries runs the generated statements against a Querier.")
	f.Type().Id("Queries").Struct(jen.Id("db").Id("Querier"))
	f.Line()

	f.Func().Id("New").Params(jen.Id("db").Id("Querier")).Op("*").Id("Queries").Block(
		jen.Return(jen.Op("&").Id("Queries").Values(jen.Dict{jen.Id("db"): jen.Id("db")})),
	)
	f.Line()

	f.Comment("WithTx returns a Queries bound to the given transaction.")
	f.Func().Params(jen.Id("q").Op("*").Id("Queries")).Id("WithTx").Params(
		jen.Id("tx").Op("*").Qual("database/sql", "Tx"),
	).Op("*").Id("Queries").Block(
		jen.Return(jen.Op("&").Id("Queries").Values(jen.Dict{jen.Id("db"): jen.Id("tx")})),
	)

	return f
}

// File emits the wrapper file for one model: SQL constants, row and params
// structs, and one method per generated query.
func File(m *model.Model, pkg string) (*jen.File, error) {
	f := jen.NewFile(pkg)
	f.HeaderComment(header)

	emitRowStruct(f, m)

	for _, op := range querygen.Operations {
		qcs, err := querygen.Generate(m, op)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m.Name, err)
		}
		for _, qc := range qcs {
			if err := emitQuery(f, m, op, qc); err != nil {
				return nil, fmt.Errorf("model %s %s: %w", m.Name, qc.OperationName, err)
			}
		}
	}

	return f, nil
}

// Source renders a file to formatted Go source.
func Source(f *jen.File) ([]byte, error) {
	var b strings.Builder
	if err := f.Render(&b); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// exported converts a snake_case identifier to an exported Go name, with
// the conventional ID suffix casing.
func exported(name string) string {
	s := strcase.ToCamel(name)
	if s == "Id" {
		return "ID"
	}
	if strings.HasSuffix(s, "Id") {
		return strings.TrimSuffix(s, "Id") + "ID"
	}
	return s
}

// rowStructName is the scan target for the model's readable projection.
func rowStructName(m *model.Model) string {
	return strcase.ToCamel(m.Name) + "Row"
}

func populatedRowStructName(m *model.Model) string {
	return strcase.ToCamel(m.Name) + "PopulatedRow"
}

func emitRowStruct(f *jen.File, m *model.Model) {
	readable := m.ReadableFields()

	var fields []jen.Code
	for _, fd := range readable {
		fields = append(fields, jen.Id(exported(fd.Name)).Add(goType(fd)))
	}
	f.Commentf("%s is one row of %s.", rowStructName(m), m.QualifiedTable())
	f.Type().Id(rowStructName(m)).Struct(fields...)
	f.Line()

	if !hasPopulatedVariant(m) {
		return
	}

	pop := make([]jen.Code, len(fields))
	copy(pop, fields)
	for _, rel := range m.Children {
		if rel.OnGet {
			pop = append(pop, jen.Id(exported(rel.Name)).Qual("encoding/json", "RawMessage"))
		}
	}
	for _, ref := range m.References {
		if ref.OnGet {
			pop = append(pop, jen.Id(exported(ref.Name)).Qual("encoding/json", "RawMessage"))
		}
	}
	f.Commentf("%s adds the populated relations to %s.", populatedRowStructName(m), rowStructName(m))
	f.Type().Id(populatedRowStructName(m)).Struct(pop...)
	f.Line()
}

func hasPopulatedVariant(m *model.Model) bool {
	return len(m.Children) > 0 || len(m.References) > 0
}

// methodName maps a query's operation name to its wrapper method.
func methodName(m *model.Model, qc querygen.QueryContext) string {
	name := strcase.ToCamel(m.Name)
	switch {
	case qc.OperationName == "insert":
		return "Insert" + name
	case qc.OperationName == "update":
		return "Update" + name
	case strings.HasPrefix(qc.OperationName, "update_one_with_"):
		rel := strings.TrimPrefix(qc.OperationName, "update_one_with_")
		return "Update" + name + "With" + strcase.ToCamel(rel)
	case qc.OperationName == "select_one":
		return "Get" + name
	case qc.OperationName == "select_one_populated":
		return "Get" + name + "Populated"
	case qc.OperationName == "delete":
		return "Delete" + name
	case qc.OperationName == "list":
		return "List" + strcase.ToCamel(inflect.Pluralize(m.Name))
	case qc.OperationName == "object_permission":
		return name + "PermissionTier"
	default:
		return name + strcase.ToCamel(qc.OperationName)
	}
}

func emitQuery(f *jen.File, m *model.Model, op querygen.Operation, qc querygen.QueryContext) error {
	method := methodName(m, qc)
	constName := strcase.ToLowerCamel(method) + "SQL"
	paramsName := method + "Params"

	f.Const().Id(constName).Op("=").Lit(qc.SQL)
	f.Line()

	// Params struct, one field per binding in placeholder order.
	var paramFields []jen.Code
	for _, b := range qc.Bindings {
		goName, typ, err := paramSpec(m, b)
		if err != nil {
			return err
		}
		paramFields = append(paramFields, jen.Id(goName).Add(typ))
	}
	f.Type().Id(paramsName).Struct(paramFields...)
	f.Line()

	args := []jen.Code{jen.Id("ctx"), jen.Id(constName)}
	for _, b := range qc.Bindings {
		goName, _, _ := paramSpec(m, b)
		args = append(args, jen.Id("p").Dot(goName))
	}

	switch op {
	case querygen.OpInsert:
		if len(m.ReadableFields()) == 0 {
			emitExecMethod(f, method, paramsName, constName, args)
			break
		}
		emitReturningMethod(f, m, method, paramsName, constName, args, rowStructName(m), false)
	case querygen.OpSelectOne:
		emitReturningMethod(f, m, method, paramsName, constName, args, rowStructName(m), true)
	case querygen.OpSelectOnePopulated:
		emitPopulatedGet(f, m, method, paramsName, constName, args)
	case querygen.OpUpdate, querygen.OpUpdateWithParent, querygen.OpDelete:
		emitExecMethod(f, method, paramsName, constName, args)
	case querygen.OpList:
		emitListMethod(f, m, method, paramsName, constName, args)
	case querygen.OpObjectPermission:
		emitPermissionMethod(f, method, paramsName, constName, args)
	}
	return nil
}

func emitExecMethod(f *jen.File, method, paramsName, constName string, args []jen.Code) {
	f.Func().Params(jen.Id("q").Op("*").Id("Queries")).Id(method).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("p").Id(paramsName),
	).Error().Block(
		jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("q").Dot("db").Dot("ExecContext").Call(args...),
		jen.Return(jen.Err()),
	)
	f.Line()
}

// emitReturningMethod emits a single-row method scanning the model's base
// projection. With missingOK, sql.ErrNoRows maps to (nil, nil).
func emitReturningMethod(f *jen.File, m *model.Model, method, paramsName, constName string, args []jen.Code, rowName string, missingOK bool) {
	scanArgs := scanTargets(m.ReadableFields(), nil)

	body := []jen.Code{
		jen.Var().Id("row").Id(rowName),
		jen.Err().Op(":=").Id("q").Dot("db").Dot("QueryRowContext").Call(args...).Dot("Scan").Call(scanArgs...),
	}
	if missingOK {
		body = append(body,
			jen.If(jen.Qual("errors", "Is").Call(jen.Err(), jen.Qual("database/sql", "ErrNoRows"))).Block(
				jen.Return(jen.Nil(), jen.Nil()),
			),
		)
	}
	body = append(body,
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Return(jen.Op("&").Id("row"), jen.Nil()),
	)

	f.Func().Params(jen.Id("q").Op("*").Id("Queries")).Id(method).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("p").Id(paramsName),
	).Params(jen.Op("*").Id(rowName), jen.Error()).Block(body...)
	f.Line()
}

func emitPopulatedGet(f *jen.File, m *model.Model, method, paramsName, constName string, args []jen.Code) {
	rowName := populatedRowStructName(m)

	var extra []string
	for _, rel := range m.Children {
		if rel.OnGet {
			extra = append(extra, exported(rel.Name))
		}
	}
	for _, ref := range m.References {
		if ref.OnGet {
			extra = append(extra, exported(ref.Name))
		}
	}
	scanArgs := scanTargets(m.ReadableFields(), extra)

	f.Func().Params(jen.Id("q").Op("*").Id("Queries")).Id(method).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("p").Id(paramsName),
	).Params(jen.Op("*").Id(rowName), jen.Error()).Block(
		jen.Var().Id("row").Id(rowName),
		jen.Err().Op(":=").Id("q").Dot("db").Dot("QueryRowContext").Call(args...).Dot("Scan").Call(scanArgs...),
		jen.If(jen.Qual("errors", "Is").Call(jen.Err(), jen.Qual("database/sql", "ErrNoRows"))).Block(
			jen.Return(jen.Nil(), jen.Nil()),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Return(jen.Op("&").Id("row"), jen.Nil()),
	)
	f.Line()
}

func emitListMethod(f *jen.File, m *model.Model, method, paramsName, constName string, args []jen.Code) {
	rowName := rowStructName(m)
	scanArgs := scanTargets(m.ReadableFields(), nil)

	f.Func().Params(jen.Id("q").Op("*").Id("Queries")).Id(method).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("p").Id(paramsName),
	).Params(jen.Index().Id(rowName), jen.Error()).Block(
		jen.List(jen.Id("rows"), jen.Err()).Op(":=").Id("q").Dot("db").Dot("QueryContext").Call(args...),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Defer().Id("rows").Dot("Close").Call(),
		jen.Var().Id("out").Index().Id(rowName),
		jen.For(jen.Id("rows").Dot("Next").Call()).Block(
			jen.Var().Id("row").Id(rowName),
			jen.If(
				jen.Err().Op(":=").Id("rows").Dot("Scan").Call(scanArgs...),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Id("out").Op("=").Append(jen.Id("out"), jen.Id("row")),
		),
		jen.If(
			jen.Err().Op(":=").Id("rows").Dot("Err").Call(),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Return(jen.Id("out"), jen.Nil()),
	)
	f.Line()
}

func emitPermissionMethod(f *jen.File, method, paramsName, constName string, args []jen.Code) {
	f.Func().Params(jen.Id("q").Op("*").Id("Queries")).Id(method).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("p").Id(paramsName),
	).Params(jen.Int(), jen.Error()).Block(
		jen.Var().Id("tier").Qual("database/sql", "NullInt32"),
		jen.Err().Op(":=").Id("q").Dot("db").Dot("QueryRowContext").Call(args...).Dot("Scan").Call(jen.Op("&").Id("tier")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Lit(0), jen.Err())),
		jen.Return(jen.Int().Parens(jen.Id("tier").Dot("Int32")), jen.Nil()),
	)
	f.Line()
}

func scanTargets(fields []model.Field, extra []string) []jen.Code {
	var out []jen.Code
	for _, fd := range fields {
		out = append(out, jen.Op("&").Id("row").Dot(exported(fd.Name)))
	}
	for _, name := range extra {
		out = append(out, jen.Op("&").Id("row").Dot(name))
	}
	return out
}

// paramSpec maps a binding to its Go parameter name and type.
func paramSpec(m *model.Model, b querygen.BindingName) (string, *jen.Statement, error) {
	switch b {
	case querygen.BindOrganization:
		return "OrganizationID", jen.Int64(), nil
	case querygen.BindParentID:
		return "ParentID", jen.Int64(), nil
	case querygen.BindLimit:
		return "Limit", jen.Int64(), nil
	case querygen.BindOffset:
		return "Offset", jen.Int64(), nil
	case querygen.BindActorIDs:
		return "ActorIDs", jen.Index().Int64(), nil
	case querygen.BindJoinID0, querygen.BindJoinID1:
		name := m.Join.ParentFields[0]
		if b == querygen.BindJoinID1 {
			name = m.Join.ParentFields[1]
		}
		f, _ := m.Field(name)
		return exported(f.Name), goType(f), nil
	case querygen.BindID:
		if m.IsJoin() {
			// Permission lookups bind an object id even though join models
			// have no id field; join models are skipped there, so this
			// only happens on a generator defect.
			return "", nil, fmt.Errorf("id binding on join model %s", m.Name)
		}
		f, _ := m.Field("id")
		return "ID", goType(f), nil
	}

	f, ok := m.Field(string(b))
	if !ok {
		return "", nil, fmt.Errorf("binding %q has no matching field", b)
	}
	return exported(f.Name), goType(f), nil
}

// goType maps a declared field type to its scan/parameter type. Nullable
// fields use pointers.
func goType(f model.Field) *jen.Statement {
	var t *jen.Statement
	switch f.Type {
	case model.IntegerType:
		t = jen.Int32()
	case model.BigintType:
		t = jen.Int64()
	case model.BooleanType:
		t = jen.Bool()
	case model.FloatType:
		t = jen.Float64()
	case model.DatetimeType:
		t = jen.Qual("time", "Time")
	case model.JSONType:
		return jen.Qual("encoding/json", "RawMessage")
	case model.BinaryType:
		return jen.Index().Byte()
	default:
		// string, text, decimal
		t = jen.String()
	}
	if f.Nullable {
		return jen.Op("*").Add(t)
	}
	return t
}
