// Package rules builds entity validators and transforms from declarative rules.
//
// Expressions use the expr language with the candidate bound to "value":
//
//	port := reg.AsInteger("PORT").Fetch().
//		WithValidator(rules.MustExpr[int]("value > 1024 && value < 65536"))
//
//	name := reg.AsString("TRANSFORM_EXAMPLE").Fetch().
//		WithTransform(rules.MustExprTransform[string]("upper(trim(value))"))
//
// Tags use go-playground/validator field tags:
//
//	email := reg.AsString("ADMIN_EMAIL").Fetch().WithValidator(rules.Tag[string]("email"))
package rules
