package notifications

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSNotifier delivers through SNS.
type SMSNotifier struct {
	api snsAPI
}

func NewSMSNotifier(api snsAPI) *SMSNotifier {
	return &SMSNotifier{api: api}
}

func (n *SMSNotifier) Send(ctx context.Context, msg Message) error {
	_, err := n.api.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(msg.Recipient),
		Message:     aws.String(msg.Body),
	})
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	return nil
}
