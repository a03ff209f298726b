package source

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/hupe1980/evgconfig/internal/value"
)

// LoadHCL parses an HCL document. Top-level attributes and blocks become
// mapping entries in source order. A block
//
//	task "compile" {
//	  tags = toset(["zlib", "openssl"])
//	}
//
// is appended to a sequence under its type ("task") as a mapping whose first
// entry is name: "compile". Object constructors keep their item order.
func LoadHCL(data []byte, filename string) (value.Value, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %w", diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("parsing HCL: unexpected body type %T", file.Body)
	}

	return fromBody(body, evalContext())
}

// evalContext exposes a small set of pure functions. Variables are not
// available, so every expression must be self-contained.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"toset":  stdlib.MakeToFunc(cty.Set(cty.DynamicPseudoType)),
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"join":   stdlib.JoinFunc,
			"format": stdlib.FormatFunc,
			"concat": stdlib.ConcatFunc,
		},
	}
}

type bodyItem struct {
	offset int
	attr   *hclsyntax.Attribute
	block  *hclsyntax.Block
}

func fromBody(body *hclsyntax.Body, ctx *hcl.EvalContext) (*value.Map, error) {
	items := make([]bodyItem, 0, len(body.Attributes)+len(body.Blocks))

	for _, a := range body.Attributes {
		items = append(items, bodyItem{offset: a.SrcRange.Start.Byte, attr: a})
	}

	for _, b := range body.Blocks {
		items = append(items, bodyItem{offset: b.TypeRange.Start.Byte, block: b})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].offset < items[j].offset })

	m := value.NewMap()
	blockSeqs := make(map[string]value.Seq)

	for _, it := range items {
		if it.attr != nil {
			if _, isBlock := blockSeqs[it.attr.Name]; isBlock {
				return nil, fmt.Errorf("%s: attribute %q conflicts with block of the same type", it.attr.SrcRange, it.attr.Name)
			}

			v, err := fromExpr(it.attr.Expr, ctx)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", it.attr.Name, err)
			}

			m.SetText(it.attr.Name, v)

			continue
		}

		b := it.block

		if _, isAttr := m.Get(value.Text(b.Type)); isAttr {
			if _, isBlock := blockSeqs[b.Type]; !isBlock {
				return nil, fmt.Errorf("%s: block %q conflicts with attribute of the same name", b.TypeRange, b.Type)
			}
		}

		bm, err := fromBlock(b, ctx)
		if err != nil {
			return nil, err
		}

		blockSeqs[b.Type] = append(blockSeqs[b.Type], bm)
		m.SetText(b.Type, blockSeqs[b.Type])
	}

	return m, nil
}

func fromBlock(b *hclsyntax.Block, ctx *hcl.EvalContext) (*value.Map, error) {
	if len(b.Labels) > 1 {
		return nil, fmt.Errorf("%s: block %q has %d labels, at most one is supported", b.TypeRange, b.Type, len(b.Labels))
	}

	inner, err := fromBody(b.Body, ctx)
	if err != nil {
		return nil, fmt.Errorf("block %q: %w", b.Type, err)
	}

	if len(b.Labels) == 0 {
		return inner, nil
	}

	if _, ok := inner.Get(value.Text("name")); ok {
		return nil, fmt.Errorf("%s: block %q sets name both as label and attribute", b.TypeRange, b.Type)
	}

	out := value.NewMap(value.P("name", value.Text(b.Labels[0])))
	for k, v := range inner.All() {
		out.Set(k, v)
	}

	return out, nil
}

func fromExpr(expr hclsyntax.Expression, ctx *hcl.EvalContext) (value.Value, error) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		m := value.NewMap()

		for _, item := range e.Items {
			kv, diags := item.KeyExpr.Value(ctx)
			if diags.HasErrors() {
				return nil, diags
			}

			ks, err := convert.Convert(kv, cty.String)
			if err != nil || ks.IsNull() {
				return nil, fmt.Errorf("%s: object key must be a string", item.KeyExpr.Range())
			}

			key := value.Text(ks.AsString())
			if _, dup := m.Get(key); dup {
				return nil, fmt.Errorf("%s: duplicate key %q", item.KeyExpr.Range(), string(key))
			}

			v, err := fromExpr(item.ValueExpr, ctx)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", string(key), err)
			}

			m.Set(key, v)
		}

		return m, nil
	case *hclsyntax.TupleConsExpr:
		seq := make(value.Seq, 0, len(e.Exprs))

		for i, item := range e.Exprs {
			v, err := fromExpr(item, ctx)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}

			seq = append(seq, v)
		}

		return seq, nil
	default:
		v, diags := expr.Value(ctx)
		if diags.HasErrors() {
			return nil, diags
		}

		return fromCty(v)
	}
}

// fromCty converts an evaluated cty value. Whole numbers become Int.
func fromCty(v cty.Value) (value.Value, error) {
	if v.IsNull() {
		return value.Null{}, nil
	}

	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return value.Text(v.AsString()), nil
	case ty == cty.Number:
		return fromNumber(v.AsBigFloat()), nil
	case ty == cty.Bool:
		return value.Bool(v.True()), nil
	case ty.IsListType() || ty.IsTupleType():
		seq := make(value.Seq, 0, v.LengthInt())

		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()

			item, err := fromCty(ev)
			if err != nil {
				return nil, err
			}

			seq = append(seq, item)
		}

		return seq, nil
	case ty.IsSetType():
		elems := make([]value.Scalar, 0, v.LengthInt())

		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()

			item, err := fromCty(ev)
			if err != nil {
				return nil, err
			}

			s, ok := item.(value.Scalar)
			if !ok {
				return nil, fmt.Errorf("%w: set elements must be scalars, got %s", value.ErrUnsupported, ev.Type().FriendlyName())
			}

			elems = append(elems, s)
		}

		return value.NewSetOf(elems...)
	case ty.IsObjectType() || ty.IsMapType():
		m := value.NewMap()

		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()

			item, err := fromCty(ev)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k.AsString(), err)
			}

			m.SetText(k.AsString(), item)
		}

		return m, nil
	default:
		return nil, fmt.Errorf("%w: HCL type %s", value.ErrUnsupported, ty.FriendlyName())
	}
}

func fromNumber(bf *big.Float) value.Scalar {
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return value.Int(i)
		}
	}

	f, _ := bf.Float64()

	return value.Float(f)
}
