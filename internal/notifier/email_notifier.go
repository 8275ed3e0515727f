package notifier

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/configs"
)

// SendOrderEmail sends the order confirmation email via SES.
func SendOrderEmail(recipientEmail, customerName, restaurantName, orderToken string, totalAmount float64) error {
	cfg := config.LoadEmailConfig()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {

		log.Printf("Failed to load AWS SDK config for email to %s (order %s): %v", recipientEmail, orderToken, err)
		return fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := ses.NewFromConfig(awsCfg)

	if cfg.SenderEmail == "" {
		return fmt.Errorf("sender email address is not configured in environment variables")
	}
	if recipientEmail == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	subject := fmt.Sprintf("Your %s order is in - tracking code %s", restaurantName, orderToken)

	totalAmountStr := strconv.FormatFloat(totalAmount, 'f', 2, 64)

	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>Thank you for ordering from %s! Your order has been received.</p>
            <p><strong>Order Details:</strong></p>
            <ul>
                <li>Tracking code: %s</li>
                <li>Total Amount: KES %s</li>
            </ul>
            <p>Use the tracking code to check your order status at any time.</p>
            <p>Best regards,</p>
            <p>%s</p>
        </body>
        </html>`, customerName, restaurantName, orderToken, totalAmountStr, restaurantName)

	bodyText := fmt.Sprintf(
		"Dear %s,\n\nThank you for ordering from %s! Your order has been received.\n\n"+
			"Order Details:\nTracking code: %s\nTotal Amount: KES %s\n\n"+
			"Use the tracking code to check your order status at any time.\n\nBest regards,\n%s",
		customerName, restaurantName, orderToken, totalAmountStr, restaurantName)

	input := &ses.SendEmailInput{
		Source: aws.String(cfg.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: []string{recipientEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	_, err = client.SendEmail(context.TODO(), input)
	if err != nil {
		log.Printf("Failed to send email for order %s to %s: %v", orderToken, recipientEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Order confirmation email sent successfully for order %s to %s", orderToken, recipientEmail)
	return nil
}
