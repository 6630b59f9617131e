package catalog

import "github.com/rafifeedloop/esignature/pkg/models"

// Built-in industry catalog. Field definitions drive the validation applied
// when a document is created from a template.
var industries = []models.Industry{
	{
		ID:   "banking",
		Name: "Banking",
		UseCases: []models.UseCase{
			{
				ID:          "loan-processing",
				Name:        "Loan Processing",
				Description: "Process loan applications and agreements",
				Templates: []models.Template{
					{
						ID:          "loan-application",
						Name:        "Loan Application",
						Description: "Standard loan application form",
						Compliance:  []string{"GDPR", "KYC", "AML"},
						Fields: []models.TemplateField{
							{ID: "borrower_name", Label: "Borrower Name", Type: models.FieldTypeText, Required: true},
							{ID: "loan_amount", Label: "Loan Amount", Type: models.FieldTypeNumber, Required: true},
							{ID: "loan_purpose", Label: "Loan Purpose", Type: models.FieldTypeSelect, Required: true, Options: []string{"Personal", "Business", "Home", "Auto"}},
							{ID: "employment_status", Label: "Employment Status", Type: models.FieldTypeSelect, Required: true, Options: []string{"Employed", "Self-Employed", "Retired"}},
							{ID: "annual_income", Label: "Annual Income", Type: models.FieldTypeNumber, Required: true},
							{ID: "email", Label: "Email", Type: models.FieldTypeEmail, Required: true},
							{ID: "phone", Label: "Phone Number", Type: models.FieldTypeText, Required: true},
							{ID: "signature", Label: "Applicant Signature", Type: models.FieldTypeSignature, Required: true},
							{ID: "date", Label: "Date", Type: models.FieldTypeDate, Required: true},
						},
					},
					{
						ID:          "loan-agreement",
						Name:        "Loan Agreement",
						Description: "Formal loan agreement contract",
						Compliance:  []string{"GDPR", "eIDAS"},
						Fields: []models.TemplateField{
							{ID: "lender_name", Label: "Lender Name", Type: models.FieldTypeText, Required: true},
							{ID: "borrower_name", Label: "Borrower Name", Type: models.FieldTypeText, Required: true},
							{ID: "loan_amount", Label: "Principal Amount", Type: models.FieldTypeNumber, Required: true},
							{ID: "interest_rate", Label: "Interest Rate (%)", Type: models.FieldTypeNumber, Required: true},
							{ID: "loan_term", Label: "Loan Term (months)", Type: models.FieldTypeNumber, Required: true},
							{ID: "repayment_date", Label: "First Repayment Date", Type: models.FieldTypeDate, Required: true},
							{ID: "borrower_signature", Label: "Borrower Signature", Type: models.FieldTypeSignature, Required: true},
							{ID: "lender_signature", Label: "Lender Signature", Type: models.FieldTypeSignature, Required: true},
							{ID: "witness_signature", Label: "Witness Signature", Type: models.FieldTypeSignature, Required: false},
							{ID: "agreement_date", Label: "Agreement Date", Type: models.FieldTypeDate, Required: true},
						},
					},
				},
			},
			{
				ID:          "account-opening",
				Name:        "Account Opening",
				Description: "New account applications and KYC forms",
				Templates: []models.Template{
					{
						ID:          "account-application",
						Name:        "Account Application",
						Description: "New bank account application",
						Compliance:  []string{"KYC", "AML", "GDPR"},
						Fields: []models.TemplateField{
							{ID: "account_type", Label: "Account Type", Type: models.FieldTypeSelect, Required: true, Options: []string{"Savings", "Checking", "Business"}},
							{ID: "full_name", Label: "Full Name", Type: models.FieldTypeText, Required: true},
							{ID: "date_of_birth", Label: "Date of Birth", Type: models.FieldTypeDate, Required: true},
							{ID: "address", Label: "Address", Type: models.FieldTypeText, Required: true},
							{ID: "email", Label: "Email", Type: models.FieldTypeEmail, Required: true},
							{ID: "phone", Label: "Phone", Type: models.FieldTypeText, Required: true},
							{ID: "initial_deposit", Label: "Initial Deposit Amount", Type: models.FieldTypeNumber, Required: true},
							{ID: "signature", Label: "Signature", Type: models.FieldTypeSignature, Required: true},
						},
					},
				},
			},
		},
	},
	{
		ID:   "insurance",
		Name: "Insurance",
		UseCases: []models.UseCase{
			{
				ID:          "policy-management",
				Name:        "Policy Management",
				Description: "Insurance policies and contracts",
				Templates: []models.Template{
					{
						ID:          "policy-application",
						Name:        "Policy Application",
						Description: "Insurance policy application form",
						Compliance:  []string{"GDPR", "HIPAA"},
						Fields: []models.TemplateField{
							{ID: "policy_type", Label: "Policy Type", Type: models.FieldTypeSelect, Required: true, Options: []string{"Life", "Health", "Auto", "Home"}},
							{ID: "applicant_name", Label: "Applicant Name", Type: models.FieldTypeText, Required: true},
							{ID: "date_of_birth", Label: "Date of Birth", Type: models.FieldTypeDate, Required: true},
							{ID: "coverage_amount", Label: "Coverage Amount", Type: models.FieldTypeNumber, Required: true},
							{ID: "beneficiary_name", Label: "Beneficiary Name", Type: models.FieldTypeText, Required: true},
							{ID: "medical_conditions", Label: "Pre-existing Conditions", Type: models.FieldTypeCheckbox, Required: false},
							{ID: "signature", Label: "Applicant Signature", Type: models.FieldTypeSignature, Required: true},
							{ID: "date", Label: "Date", Type: models.FieldTypeDate, Required: true},
						},
					},
				},
			},
			{
				ID:          "claims-processing",
				Name:        "Claims Processing",
				Description: "Insurance claim forms and settlements",
				Templates: []models.Template{
					{
						ID:          "claim-form",
						Name:        "Claim Form",
						Description: "Insurance claim submission form",
						Compliance:  []string{"GDPR"},
						Fields: []models.TemplateField{
							{ID: "policy_number", Label: "Policy Number", Type: models.FieldTypeText, Required: true},
							{ID: "claimant_name", Label: "Claimant Name", Type: models.FieldTypeText, Required: true},
							{ID: "incident_date", Label: "Date of Incident", Type: models.FieldTypeDate, Required: true},
							{ID: "incident_description", Label: "Description", Type: models.FieldTypeText, Required: true},
							{ID: "claim_amount", Label: "Claim Amount", Type: models.FieldTypeNumber, Required: true},
							{ID: "signature", Label: "Claimant Signature", Type: models.FieldTypeSignature, Required: true},
						},
					},
				},
			},
		},
	},
	{
		ID:   "real-estate",
		Name: "Real Estate",
		UseCases: []models.UseCase{
			{
				ID:          "property-transactions",
				Name:        "Property Transactions",
				Description: "Purchase agreements and leases",
				Templates: []models.Template{
					{
						ID:          "lease-agreement",
						Name:        "Lease Agreement",
						Description: "Residential lease agreement",
						Compliance:  []string{"GDPR"},
						Fields: []models.TemplateField{
							{ID: "landlord_name", Label: "Landlord Name", Type: models.FieldTypeText, Required: true},
							{ID: "tenant_name", Label: "Tenant Name", Type: models.FieldTypeText, Required: true},
							{ID: "property_address", Label: "Property Address", Type: models.FieldTypeText, Required: true},
							{ID: "monthly_rent", Label: "Monthly Rent", Type: models.FieldTypeNumber, Required: true},
							{ID: "lease_start", Label: "Lease Start Date", Type: models.FieldTypeDate, Required: true},
							{ID: "lease_term", Label: "Lease Term (months)", Type: models.FieldTypeNumber, Required: true},
							{ID: "pets_allowed", Label: "Pets Allowed", Type: models.FieldTypeCheckbox, Required: false},
							{ID: "landlord_signature", Label: "Landlord Signature", Type: models.FieldTypeSignature, Required: true},
							{ID: "tenant_signature", Label: "Tenant Signature", Type: models.FieldTypeSignature, Required: true},
						},
					},
				},
			},
		},
	},
	{
		ID:   "healthcare",
		Name: "Healthcare",
		UseCases: []models.UseCase{
			{
				ID:          "patient-intake",
				Name:        "Patient Intake",
				Description: "Patient registration and consent forms",
				Templates: []models.Template{
					{
						ID:          "consent-form",
						Name:        "Treatment Consent Form",
						Description: "Informed consent for treatment",
						Compliance:  []string{"HIPAA", "GDPR"},
						Fields: []models.TemplateField{
							{ID: "patient_name", Label: "Patient Name", Type: models.FieldTypeText, Required: true},
							{ID: "date_of_birth", Label: "Date of Birth", Type: models.FieldTypeDate, Required: true},
							{ID: "procedure", Label: "Procedure", Type: models.FieldTypeText, Required: true},
							{ID: "physician_email", Label: "Physician Email", Type: models.FieldTypeEmail, Required: false},
							{ID: "emergency_contact", Label: "Emergency Contact", Type: models.FieldTypeText, Required: true},
							{ID: "patient_signature", Label: "Patient Signature", Type: models.FieldTypeSignature, Required: true},
							{ID: "date", Label: "Date", Type: models.FieldTypeDate, Required: true},
						},
					},
				},
			},
		},
	},
}
