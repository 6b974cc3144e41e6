package notifications

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailNotifier delivers through SES.
type EmailNotifier struct {
	api    sesAPI
	sender string
}

func NewEmailNotifier(api sesAPI, sender string) *EmailNotifier {
	return &EmailNotifier{api: api, sender: sender}
}

func (n *EmailNotifier) Send(ctx context.Context, msg Message) error {
	bodyHTML := fmt.Sprintf(`<html><head></head><body><h1>Hello!</h1><p>%s</p></body></html>`, msg.Body)

	_, err := n.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.sender),
		Destination: &types.Destination{
			ToAddresses: []string{msg.Recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
					Html: &types.Content{Data: aws.String(bodyHTML), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
