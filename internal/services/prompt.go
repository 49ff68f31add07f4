package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeExtractionPrompt creates the prompt for structuring raw resume
// text. The JSON skeleton mirrors models.ResumeData field for field.
func (pb *PromptBuilder) BuildResumeExtractionPrompt(resumeText string) string {
	return fmt.Sprintf(`You are a CV/Resume analysis expert. Extract information from the resume below and return the result in JSON format with the following structure:

{
    "personal_info": {
        "full_name": "Full Name",
        "email": "email@example.com",
        "phone": "Phone Number",
        "address": "Full Address",
        "linkedin": "LinkedIn profile URL",
        "github": "GitHub profile URL"
    },
    "education": [
        {
            "degree": "Degree Name",
            "institution": "University Name",
            "graduation_year": 2023,
            "gpa": 3.5,
            "major": "Major",
            "education_level": "Bachelor"
        }
    ],
    "experience": [
        {
            "job_title": "Job Title",
            "company": "Company Name",
            "start_date": "2022-01",
            "end_date": "2023-12",
            "is_current": false,
            "responsibilities": ["Responsibility 1", "Responsibility 2"],
            "achievements": ["Achievement 1", "Achievement 2"]
        }
    ],
    "skills": [
        {
            "skill_name": "Python",
            "category": "Technical",
            "proficiency_level": "Advanced",
            "years_experience": 3
        }
    ],
    "projects": [
        {
            "project_name": "Project Name",
            "description": "Project Description",
            "technologies": ["Python", "React", "MySQL"],
            "project_url": "https://project.com",
            "github_url": "https://github.com/user/project",
            "start_date": "2023-01",
            "end_date": "2023-06"
        }
    ],
    "certifications": [
        {
            "certification_name": "AWS Certified",
            "issuing_organization": "Amazon",
            "issue_date": "2023-06",
            "expiry_date": "2026-06"
        }
    ]
}

IMPORTANT:
	1.	Only return JSON, no extra text
	2.	If any information is missing, use null or an empty array
	3.	Use YYYY-MM or YYYY format for all dates
	4.	Convert GPA to 4.0 scale if necessary

Resume text:
%s`, resumeText)
}

// BuildOCRPrompt creates the instruction sent with a resume image.
func (pb *PromptBuilder) BuildOCRPrompt() string {
	return `Transcribe all text visible in this resume image. ` +
		`Return only the transcribed text, preserving the reading order and line breaks. ` +
		`Do not summarize, translate, or add commentary.`
}
