package model

import "github.com/bwmarrin/snowflake"

var snowflakeNode *snowflake.Node

var Models = []interface{}{
	&User{}, &RegistrationForm{}, &UserDocument{}, &ApprovalQueue{}, &AuditLog{}, &Admin{},
	&DuesLedger{}, &Ticket{}, &BenefitRequest{}, &Event{}, &EventAttachment{},
	&EventRegistration{}, &Setting{},
}

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// GenerateID returns a new snowflake identifier.
func GenerateID() snowflake.ID {
	return snowflakeNode.Generate()
}
