package internal

import "fmt"

func CreateIndex(label, property string) (Operation, error) {
	return schema("CREATE INDEX ON :%s(%s)", label, property)
}

func DropIndex(label, property string) (Operation, error) {
	return schema("DROP INDEX ON :%s(%s)", label, property)
}

func CreateUnique(label, property string) (Operation, error) {
	return schema("CREATE CONSTRAINT ON (n:%s) ASSERT n.%s IS UNIQUE", label, property)
}

func DropUnique(label, property string) (Operation, error) {
	return schema("DROP CONSTRAINT ON (n:%s) ASSERT n.%s IS UNIQUE", label, property)
}

func schema(template, label, property string) (Operation, error) {
	label, property = Escape(label, false), Escape(property, false)
	if label == "" || property == "" {
		return Operation{}, fmt.Errorf("%w: label and property are required", ErrMissingArgument)
	}
	return newOperation(KindRaw, fmt.Sprintf(template, label, property), nil), nil
}
