package reply

import (
	"strings"

	"github.com/xecurify/draftpilot/internal/classify"
)

// Templates maps a response category to its reply body. Categories
// without an entry fall back to the default template; the default
// category itself means "do not draft" and is the pipeline's concern,
// not this package's.
type Templates map[classify.Category]string

// For returns the template for a category, falling back to the default
// template when the category has none.
func (t Templates) For(category classify.Category) string {
	if body, ok := t[category]; ok {
		return body
	}
	return t[classify.CategoryDefault]
}

// Customize replaces the name placeholder with the handling agent's
// name when one is configured.
func Customize(template, agentName string) string {
	if agentName == "" {
		return template
	}
	return strings.ReplaceAll(template, "[Your Name]", agentName)
}

// DefaultTemplates returns the production reply bodies.
func DefaultTemplates() Templates {
	return Templates{
		classify.CategoryPAMQuery: `Hello,

I hope you are well, I am Mohak from the miniOrange team, and will be assisting you with your query.
It looks like you want to have a PAM solution for your organization, we do provide this solution.

Before we move forward, could you answer a few questions so that I can get a better understanding of your requirements.
What are the different applications/devices (Windows, Linux machines, databases, Network devices etc. ) that you want to protect using PAM?
What is the estimated number of users that are going to use our solution?
What specific features or functionalities are you looking for in our product?
You can visit this page to learn more about the PAM capabilities of our product.

If you want, we can have a quick demo to showcase our product. If so, please share your availability and time zone so that I can schedule the call accordingly.
We can also have a demo right now.

Hope to hear from you soon.

Thanks & Regards,
Mohak`,
		classify.CategoryPricing: `Thank you for your interest in our pricing information.

I'd be happy to provide you with detailed pricing options. Our pricing varies based on your specific needs and requirements.

Could you please let me know:
- What type of service/product are you interested in?
- What's your expected timeline?
- Any specific features or requirements?

I'll get back to you with a customized quote within 24 hours.

Best regards,
[Your Name]`,
		classify.CategorySupport: `Thank you for reaching out for support.

I understand you're experiencing an issue and I'm here to help resolve it quickly.

To better assist you, could you please provide:
- A detailed description of the problem
- Any error messages you're seeing
- Steps you've already tried
- Your system/browser information (if relevant)

I'll investigate this issue and get back to you with a solution as soon as possible.

Best regards,
[Your Name]`,
		classify.CategoryProductInfo: `Thank you for your interest in learning more about our product.

I'd be delighted to provide you with detailed information about our features and capabilities.

Based on your inquiry, here are some key highlights:
- [Feature 1]: [Brief description]
- [Feature 2]: [Brief description]
- [Feature 3]: [Brief description]

Would you like me to schedule a demo or provide more specific information about any particular feature?

Best regards,
[Your Name]`,
		classify.CategoryMeeting: `Thank you for your interest in scheduling a meeting.

I'd be happy to set up a time to discuss your requirements in detail.

Please let me know your preferred:
- Date and time (with timezone)
- Meeting duration
- Preferred communication method (video call, phone, in-person)
- Any specific topics you'd like to cover

I'll check my availability and confirm the meeting details shortly.

Best regards,
[Your Name]`,
		classify.CategoryGeneralInquiry: `Thank you for reaching out!

I appreciate your interest and would be happy to help with any questions you may have.

Could you please provide a bit more detail about what you're looking for? This will help me give you the most relevant and helpful response.

I'll get back to you as soon as possible.

Best regards,
[Your Name]`,
		classify.CategoryDefault: `Thank you for your email.

I have received your message and will review it carefully. I'll get back to you with a detailed response as soon as possible.

If this is urgent, please don't hesitate to call me directly.

Best regards,
[Your Name]`,
	}
}
