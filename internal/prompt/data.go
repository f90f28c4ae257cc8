package prompt

import "mithaq/internal/document"

// ============================================================================
// CATALOG DATA
// ============================================================================

// formattingDirectives are appended one-at-a-time (randomly chosen) to each
// new-document generation, so consecutive generations differ in surface style.
var formattingDirectives = []string{
	"**Dynamic Style Directive:** All `<h2>` headings must be followed by a horizontal rule (`---`) for visual separation.",
	"**Dynamic Style Directive:** In the 'Scope of Work' section, all bulleted lists (`<ul>`) must use asterisks (`*`) as bullet points.",
	"**Dynamic Style Directive:** In all Annexes, render all `<h3>` headings in italics by wrapping them in single asterisks (e.g., `*### عنوان الملحق*`).",
	"**Dynamic Style Directive:** The final signature block (under '### التوقيعات') must be enclosed within a Markdown blockquote (by prefixing each line with `> `).",
	"**Dynamic Style Directive:** All dates, both Hijri and Gregorian, appearing anywhere in the document (preamble, annexes, closing) must be rendered in bold text.",
	"**Dynamic Style Directive:** For the 'Key Deliverables' (`المخرجات الرئيسية`) subsection, use a numbered list (`<ol>`) instead of a bulleted list (`<ul>`).",
}

// saudiContractTemplates is the analyzed template corpus the deep-synthesis
// generator retrieves a base from.
var saudiContractTemplates = []Template{
	{
		ID:              "SA_GOV_CONSULTING_01",
		SourceFileName:  "نموذج عقد (خدمات استشارية).docx",
		Type:            "Official Government - Consulting Services",
		KeyTerminology:  []string{"الجهة الحكومية", "المتعاقد", "نظام المنافسات والمشتريات الحكومية"},
		StructuralNotes: "Follows the official two-part government format: a short 'Basic Document' (وثيقة العقد الأساسية) followed by extensive multi-section 'Conditions' (شروط العقد).",
		KeyClauses: []TemplateClause{
			{ClauseName: "المحتوى المحلي", Description: "Mandatory clause referencing the Local Content and SMEs Authority regulations, requiring preference for national products."},
			{ClauseName: "حقوق الملكية الفكرية", Description: "Specifies that all IP generated under the contract becomes the exclusive property of the Government Entity."},
			{ClauseName: "تعارض المصالح", Description: "Requires the contractor to avoid and disclose any potential conflicts of interest."},
			{ClauseName: "السرية وحماية المعلومات", Description: "Imposes strict confidentiality obligations on the contractor regarding all project and government data."},
		},
		UniqueMechanisms: "Standard direct-award contract for a defined scope of services.",
	},
	{
		ID:              "SA_GOV_GENERAL_SERVICES_02",
		SourceFileName:  "نموذج عقد (خدمات عام).docx",
		Type:            "Official Government - General Services",
		KeyTerminology:  []string{"الجهة الحكومية", "المتعاقد"},
		StructuralNotes: "Follows the official two-part government format.",
		KeyClauses: []TemplateClause{
			{ClauseName: "فريق العمل", Description: "Specifies requirements for contractor's personnel."},
			{ClauseName: "الأصناف والمواد", Description: "Defines the standards and specifications for any materials used in delivering the service."},
			{ClauseName: "المعدات", Description: "Outlines the requirements for equipment to be used by the contractor."},
		},
		UniqueMechanisms: "Standard direct-award contract suitable for non-consulting services like cleaning, security, or general maintenance.",
	},
	{
		ID:              "SA_GOV_MILITARY_SUPPLY_03",
		SourceFileName:  "نموذج عقد التوريد عسكري.docx",
		Type:            "Official Government - Military Supply",
		KeyTerminology:  []string{"الجهة الحكومية", "المتعاقد", "الهيئة العامة للصناعات العسكرية"},
		StructuralNotes: "A highly specialized two-part government procurement contract.",
		KeyClauses: []TemplateClause{
			{ClauseName: "رخص التصدير", Description: "Makes the contractor responsible for obtaining all necessary export licenses from the country of origin."},
			{ClauseName: "المشاركة الصناعية", Description: "Mandates an industrial participation agreement with the General Authority for Military Industries (GAMI) to promote local industry."},
			{ClauseName: "التعبئة والتغليف والتوثيق", Description: "Contains highly specific requirements for military-grade packaging, labeling, and shipping documentation."},
		},
		UniqueMechanisms: "Features a mandatory multi-stage testing and acceptance protocol: Factory Acceptance Tests (FAT), Site Acceptance Tests (SAT), and User Acceptance Tests (UAT), each being a prerequisite for the next stage.",
	},
	{
		ID:              "PVT_COMMERCIAL_SUPPLY_04",
		SourceFileName:  "نموذج-عقد-توريد-أثاث-مكتبي-موقع-النموذج.docx",
		Type:            "Simple Private Commercial - Goods Supply",
		KeyTerminology:  []string{"المشتري", "البائع"},
		StructuralNotes: "Simple, linear contract structure without complex sections. Suitable for basic B2B sales.",
		KeyClauses: []TemplateClause{
			{ClauseName: "سعر التوريد والدفع", Description: "Basic clause outlining total price and payment terms (e.g., advance payment, final payment)."},
			{ClauseName: "التسليم", Description: "Specifies delivery location and dates."},
			{ClauseName: "الضمان والصيانة", Description: "Provides a basic warranty period for the supplied goods."},
		},
		UniqueMechanisms: "None, it's a straightforward sales contract.",
	},
	{
		ID:              "SA_GOV_CONSTRUCTION_GENERAL_11",
		SourceFileName:  "نموذج عقد (إنشاءات عامة).docx",
		Type:            "Official Government - General Construction",
		KeyTerminology:  []string{"الجهة الحكومية", "المقاول", "المهندس"},
		StructuralNotes: "The standard official template for general building construction projects, following the two-part government format.",
		KeyClauses: []TemplateClause{
			{ClauseName: "تسليم الموقع", Description: "Procedures for the official handover of the construction site to the contractor."},
			{ClauseName: "الاستلام الابتدائي والنهائي", Description: "A two-stage acceptance process: preliminary acceptance to start the defects liability period, and final acceptance after its completion."},
			{ClauseName: "المسؤولية عن العيوب", Description: "Defines the contractor's responsibility to remedy any defects that appear during the defect liability period."},
			{ClauseName: "التأمين", Description: "Requires specific insurance policies, typically Contractor's All-Risk (CAR) and Professional Indemnity."},
		},
		UniqueMechanisms: "Relies heavily on the role of 'The Engineer' (المهندس) as the government's representative for technical supervision and approvals.",
	},
	{
		ID:              "SA_GOV_OM_12",
		SourceFileName:  "نموذج عقد (التشغيل والصيانة) (1).docx",
		Type:            "Official Government - Operation & Maintenance",
		KeyTerminology:  []string{"الجهة الحكومية", "المتعاقد"},
		StructuralNotes: "Official two-part government contract tailored for long-term O&M services.",
		KeyClauses: []TemplateClause{
			{ClauseName: "مؤشرات الأداء الرئيسية (KPIs)", Description: "Defines the measurable metrics used to evaluate the contractor's performance."},
			{ClauseName: "اتفاقية مستوى الخدمة (SLA)", Description: "Specifies the required service levels, response times, and uptime for the maintained assets."},
			{ClauseName: "جدول الصيانة الوقائية", Description: "Requires the contractor to submit and adhere to a detailed schedule for preventive maintenance activities."},
		},
		UniqueMechanisms: "Payment is often tied directly to the achievement of KPIs defined in the SLA, with penalties for non-compliance.",
	},
	{
		ID:              "SA_FRAMEWORK_SUPPLY_07",
		SourceFileName:  "نموذج اتفاقية إطارية (توريد عام).docx",
		Type:            "Framework Agreement - General Supply",
		KeyTerminology:  []string{"الجهة الحكومية", "المتعاقد"},
		StructuralNotes: "An official government agreement that establishes terms for future purchases, not a contract for a specific one-time purchase.",
		KeyClauses: []TemplateClause{
			{ClauseName: "مدة الاتفاقية", Description: "Defines the period during which the framework is valid (e.g., 3 years)."},
			{ClauseName: "الحد الأعلى للاتفاقية", Description: "Specifies the maximum total value of all purchase orders that can be issued under the agreement."},
		},
		UniqueMechanisms: "The core mechanism is that no goods are procured upon signing. Instead, legally binding 'Purchase Orders' (أوامر الشراء) are issued against the pre-agreed prices and terms as needed.",
	},
	{
		ID:              "SA_GOV_ENG_SUPERVISION_13",
		SourceFileName:  "نموذج عقد (الخدمات الهندسية – إشراف).docx",
		Type:            "Official Government - Engineering Supervision Services",
		KeyTerminology:  []string{"الجهة الحكومية", "الاستشاري"},
		StructuralNotes: "Official two-part government format for specialized professional services.",
		KeyClauses: []TemplateClause{
			{ClauseName: "صلاحيات ومسؤوليات الاستشاري", Description: "Defines the consultant's authority to inspect works, approve materials, and issue instructions to the construction contractor on behalf of the government."},
			{ClauseName: "المسؤولية المهنية", Description: "Specifies the consultant's liability for professional negligence (standard of care)."},
		},
		UniqueMechanisms: "The consultant acts as an intermediary and technical authority between the government client and the construction contractor.",
	},
}

var contractDynoSpec = &Spec{
	PromptDetails: Details{
		Title:     "Deep Synthesis Dynamic Contract Generator with Full Annex Generation (Saudi Arabia)",
		Version:   "14.0",
		Objective: "To programmatically generate fully synthetic, unique, and complex Arabic contracts. Each contract must be at least 5 pages long, professionally formatted in a right-to-left (RTL) document structure using Markdown with styled HTML tables, and include fully auto-populated, unique variables and annexes.",
	},
	Instructions: Instructions{
		RoleAndContext: "You are an advanced legal AI specializing in the deep synthesis of complex Saudi Arabian contracts. Your task is to act as a 'Dynamic Contract Generator'. You will receive this JSON prompt and generate a single, complete, and unique contract as a clean, right-to-left formatted document.",
		CoreDirectives: []string{
			"**Absolute Uniqueness & Auto-Population Required:** Every single variable and placeholder field within the final contract text, including all names, project titles, financial figures, dates (Hijri and Gregorian), and signature blocks, MUST be fully and uniquely auto-populated by you. No square brackets or placeholders [like this] should remain in the final output.",
			"**Mandatory Length and Detail:** The generated contract's content must be substantial enough to equate to a minimum of 5 standard pages. This is achieved through a deeply detailed 'Scope of Work' and fully generated Annexes.",
			"**CRITICAL TABLE RULE: All Tables Must Be Fully Populated.** It is absolutely mandatory that every single table generated in the contract, including those in the main body and all annexes, is completely filled with unique, plausible, and contextually relevant data. No table cell (`<td>`) should be left empty or contain placeholder text. The data must be consistent with the contract's scope and financial details.",
			"**Full Annex Generation:** Do not just describe the annexes. You must generate the actual content of the mandatory annexes (A, B, C, D) as detailed, structured documents within the main contract output.",
			"**RTL Document Structure:** The entire final output must be wrapped in a single HTML container `<div dir='rtl'>...</div>` to ensure proper right-to-left text alignment for Arabic. The content inside this container will be Markdown with embedded HTML for tables.",
			"**Final Output is Document Only:** Your entire response to this prompt must be the single `<div>` block containing the complete contract. Do not wrap the output in a JSON object or include any other metadata outside of this container.",
			"**Self-Correction Mandate:** Before finalizing the output, you must perform a self-correction pass to verify that every single table cell (`<td>`) in the entire document contains meaningful, context-specific data. Outputting empty or placeholder-filled cells is a failure to meet the prompt's requirements.",
		},
	},
	SelfChecklist: &Checklist{
		Description: "Final mandatory checks to perform before generating the response. Failure to comply with these will result in an invalid output.",
		Rules: []string{
			"1. Any contract output containing an empty <td> is considered invalid and must be re-generated with complete data.",
			"2. Scan all HTML tables. Is there a single empty `<td>` element? If yes, the output is invalid. Fill it with relevant data.",
			"3. Does the total in Annex D exactly match the `contractValueNumeric`? If no, correct it.",
			"4. Are all party names, dates, and project details from the preamble consistently used in the signature blocks and annexes? If no, correct it.",
			"5. Does the output contain any placeholder text like '[...]' or 'TBD'? If yes, replace it with generated data.",
		},
	},
	KnowledgeBase: &KnowledgeBase{
		Description: "A detailed, structured corpus of analyzed Saudi contract templates. This is your primary source for style, structure, and legal terminology. You will retrieve one template as a base for each generation.",
		Templates:   saudiContractTemplates,
	},
	DynamicVariableGeneration: &VariablePlan{
		Description: "Auto-generate all variables to be 100% unique for each contract generation.",
		Steps: []VariableStep{
			{Step: 1, Action: "Generate Scenario & Base", Instruction: "Randomly select a `baseTemplateId` from the knowledgeBase. Based on the selection, generate a plausible, unique, one-sentence `contractScenario`."},
			{Step: 2, Action: "Generate Unique Parties", Instruction: "Create two unique parties with full, synthetic details (names, legal types, addresses, representative names, representative titles). Ensure names are plausible for Saudi Arabia."},
			{Step: 3, Action: "Generate Unique Project Details", Instruction: "Create a unique, descriptive `projectName`. Generate a 2-3 sentence `projectBackground` for the preamble."},
			{Step: 4, Action: "Generate Dynamic Financials", Instruction: "Generate a unique `contractValueNumeric` appropriate for the scenario. Generate random but plausible percentages for guarantees, advance payments, and penalties."},
			{Step: 5, Action: "Generate Dual-Calendar Dates & Location", Instruction: "Generate a random but valid future date. This date MUST be represented in two corresponding formats: `contractDateHijri` (e.g., '25 ربيع الآخر 1447هـ') and `contractDateGregorian` (e.g., '17 September 2025'). Generate the `dayOfWeek` (e.g., 'يوم الأربعاء'). Select a random major city in Saudi Arabia for `signingLocation`."},
			{Step: 6, Action: "Generate Dynamic Styling Variable", Instruction: "Generate a unique `tableHeaderColor` for this contract. This must be a standard HTML hex color code (e.g., '#4A90E2', '#D9534F', '#5CB85C'). Ensure the chosen color provides good contrast with white text for readability."},
		},
	},
	GenerationLogic: &GenerationLogic{
		Description: "Core rules for constructing the contract's content and structure to ensure detail and uniqueness.",
		Structure: StructureRules{
			Rules: []string{
				"Adopt the fundamental structure of the selected `baseTemplateId`, paying close attention to the `structuralNotes`.",
				"Dynamically set the number of main sections between 12 and 18 for government contracts and 8-12 for commercial ones.",
				"Synthesize unique, descriptive section titles based on the `keyClauses` of the selected template.",
				"Logically reorder secondary sections between generations to ensure structural uniqueness.",
			},
		},
		Content: ContentRules{
			Rules: []SectionRule{
				{
					Section:     "Preamble and Signatures",
					Instruction: "The preamble (الديباجة) must be populated with the full party details and must include the auto-generated `dayOfWeek`, `contractDateHijri`, and `contractDateGregorian`. The signature blocks must be populated with the unique representative names and titles.",
				},
				{
					Section:     "Scope of Work (`نطاق العمل`)",
					Instruction: "**This section is the most critical for uniqueness and length and must be a minimum of 600 words.** Synthesize a detailed scope structured into **4-6 distinct phases**. Each phase must contain a bulleted list of **5-10 specific, unique, and technically plausible activities**. Include a dedicated subsection for **'المخرجات الرئيسية' (Key Deliverables)**, listing and describing at least 5-8 unique deliverables.",
				},
				{
					Section:     "Specifications (`المواصفات`)",
					Instruction: "Create highly detailed, synthetic specification tables relevant to the scope, ensuring they are fully populated with data. **Use HTML table syntax.** For personnel (`فريق العمل`), the table must include: Role, Qualification, Certifications, Experience, and Responsibilities for 4-6 unique roles. Every cell in this table must be filled with specific, plausible details. The table header must be styled using the generated `tableHeaderColor`.",
				},
				{
					Section:     "Annexes (`الملاحق`)",
					Instruction: "**Generate the full, detailed content for the mandatory annexes (A, B, C, D) as complete documents. Per the CRITICAL TABLE RULE, all tables herein must be completely filled with detailed, unique data and generated using HTML syntax with headers styled using the `tableHeaderColor`.**\n\n* **الملحق (أ) - نطاق العمل والمواصفات الفنية:** Reiterate the full Scope of Work and add a subsection with 3-5 unique, specific technical requirements or standards.\n\n* **الملحق (ب) - الجدول الزمني التفصيلي:** Generate a detailed project timeline in an HTML table. The table must have columns for Phase, Milestone, Deliverable, Estimated Completion Date (in both Hijri and Gregorian), and Responsibilities. It must contain at least 10-15 unique milestones, with every cell populated with specific information. Do not leave any of these cells blank.\n\n* **الملحق (ج) - جدول الغرامات والجزاءات:** Generate a detailed HTML table of penalties with columns for Violation Type, Description, Penalty Calculation, and Max Penalty. Populate with at least 5-7 unique, specific violations, ensuring all columns are filled with realistic data. Each violation must have a clear description, a specific calculation method (e.g., '1% of total contract value per day'), and a maximum penalty. Do not use generic descriptions.\n\n* **الملحق (د) - جدول الأسعار والدفعات:** Generate a detailed price and payment schedule in an HTML table. The line items must correspond to the Scope of Work, and the total value must equal the `contractValueNumeric`. Each payment line item must be explicitly tied to a deliverable from the Scope of Work. Do not leave payment triggers or amounts undefined.\n\n* **Optional Annexes:** Randomly include 1-2 optional annexes and generate a substantial paragraph or structured list outlining their content.",
				},
				{
					Section:     "Final Signature Block",
					Instruction: "At the very end of the contract document, you must generate a distinct signature section under a '### التوقيعات' heading. This section must be clearly formatted for two parties. For each party, you must first state their designation and their full legal name on the same line (e.g., '**الطرف الأول:** [Full Legal Name of Party One]'). Directly below this, you must list the full name and title of their authorized representative on separate lines, followed by a line for the signature. This entire block must be populated with the unique, generated party and representative details.\n\n### التوقيعات\n\n**الطرف الأول:** [اسم الجهة الحكومية/الشركة الأولى الكامل]\n\n**الاسم:** [اسم الممثل المفوض الكامل]\n\n**المنصب:** [منصب الممثل المفوض]\n\n**التوقيع:** _________________________\n\n\n**الطرف الثاني:** [اسم المتعاقد/الشركة الثانية الكامل]\n\n**الاسم:** [اسم الممثل المفوض الثاني الكامل]\n\n**المنصب:** [منصب الممثل المفوض الثاني]\n\n**التوقيع:** _________________________",
				},
			},
		},
	},
	OutputFormatting: &OutputFormat{
		FinalOutputFormat: "HTML-wrapped Markdown",
		Description:       "The final output must be a single block of text. The entire document, from the title to the final annex, must be enclosed within a single HTML `<div>` tag with right-to-left directionality (`<div dir='rtl'>...</div>`). This ensures correct formatting for the Arabic language. The content inside the div should be Markdown with embedded HTML for tables.",
		Language:          "Arabic",
		Styling:           "Inside the RTL div, strictly adhere to Markdown formatting for prose and headings (#, ##, ###). All tables MUST be generated as HTML tables. Their headers (`<thead>`) must contain table header cells (`<th>`). Each `<th>` element must be styled with the unique, randomly generated `tableHeaderColor` as its background and white text (`color: #FFFFFF;`).",
		FinalNote:         "The contract's closing statement must include both the auto-generated Hijri and Gregorian dates.",
	},
}

// contractRevoSpec is the leaner revision-oriented contract generator. Same
// output contract as the deep-synthesis variant, no template corpus.
var contractRevoSpec = &Spec{
	PromptDetails: Details{
		Title:     "Rapid Evolution Contract Generator (Saudi Arabia)",
		Version:   "3.0",
		Objective: "To generate a unique, self-consistent Arabic commercial contract of 2-3 pages, optimized for fast iteration and subsequent amendment cycles rather than exhaustive annex depth.",
	},
	Instructions: Instructions{
		RoleAndContext: "You are an advanced legal AI acting as a 'Rapid Contract Generator' for Saudi Arabian commercial practice. You will receive this JSON prompt and generate a single, complete, and unique contract as a clean, right-to-left formatted document.",
		CoreDirectives: []string{
			"**Absolute Uniqueness & Auto-Population Required:** All names, project titles, financial figures, dates (Hijri and Gregorian), and signature blocks MUST be fully and uniquely auto-populated. No square brackets or placeholders [like this] may remain.",
			"**Concise but Complete:** The contract must contain a preamble, 8-10 substantive sections, one fully populated HTML pricing table, and the standard '### التوقيعات' signature block with '**الطرف الأول:**' and '**الطرف الثاني:**' designations.",
			"**CRITICAL TABLE RULE:** Every HTML table cell (`<td>`) must contain plausible, context-specific data. Empty cells are an invalid output.",
			"**RTL Document Structure:** Wrap the entire output in a single `<div dir='rtl'>...</div>` container. The content inside is Markdown with embedded HTML for tables.",
			"**Final Output is Document Only:** Respond with the single `<div>` block only. No commentary, no JSON wrapper, no metadata.",
		},
	},
	SelfChecklist: &Checklist{
		Description: "Final mandatory checks before responding.",
		Rules: []string{
			"1. Is any `<td>` empty or placeholder-filled? If yes, the output is invalid.",
			"2. Do the payment line items sum exactly to the stated contract value? If no, correct them.",
			"3. Are the party names in the preamble identical to those in the signature block? If no, correct them.",
		},
	},
	DynamicVariableGeneration: &VariablePlan{
		Description: "Auto-generate all variables to be 100% unique for each generation.",
		Steps: []VariableStep{
			{Step: 1, Action: "Generate Scenario", Instruction: "Invent a plausible, unique, one-sentence Saudi commercial scenario (supply, services, licensing, or leasing)."},
			{Step: 2, Action: "Generate Unique Parties", Instruction: "Create two unique parties with full synthetic details plausible for Saudi Arabia, including representative names and titles."},
			{Step: 3, Action: "Generate Financials and Dates", Instruction: "Generate a unique contract value and a valid future date rendered in both `contractDateHijri` and `contractDateGregorian` (e.g., '17 September 2025') formats."},
		},
	},
	OutputFormatting: &OutputFormat{
		FinalOutputFormat: "HTML-wrapped Markdown",
		Description:       "A single `<div dir='rtl'>...</div>` block containing Markdown prose and headings with embedded HTML tables.",
		Language:          "Arabic",
		FinalNote:         "The closing statement must include both the Hijri and Gregorian dates.",
	},
}

var letterGenerationSpec = &Spec{
	PromptDetails: Details{
		Title:     "Official Arabic Letter Generator (Saudi Arabia)",
		Version:   "2.0",
		Objective: "To generate a unique, formal Arabic business or government letter, professionally formatted in right-to-left Markdown.",
	},
	Instructions: Instructions{
		RoleAndContext: "You are an advanced legal AI drafting formal Saudi Arabian correspondence. You will receive this JSON prompt and generate a single, complete, and unique official letter as a clean, right-to-left formatted document.",
		CoreDirectives: []string{
			"**Absolute Uniqueness & Auto-Population Required:** Sender, recipient, reference numbers, dates, and all substantive content MUST be fully and uniquely auto-populated. No placeholders may remain.",
			"**Mandatory Header Fields:** The letter must open with a '**المرسل:**' line naming the sending entity and an '**إلى:**' line naming the recipient, each on its own line.",
			"**Mandatory Subject Line:** The subject must appear as a Markdown H2 of the exact form '## الموضوع: <subject text>'.",
			"**Formal Register:** Use formal Saudi correspondence conventions: opening salutation, body of 3-5 substantive paragraphs, closing courtesy formula, then the sender's name, title, and a signature line.",
			"**Date Rendering:** Include the letter date in both Hijri and Gregorian forms, the Gregorian rendered with an English month name (e.g., '17 September 2025').",
			"**RTL Document Structure:** Wrap the entire output in a single `<div dir='rtl'>...</div>` container containing pure Markdown.",
			"**Final Output is Document Only:** Respond with the single `<div>` block only, with no commentary outside it.",
		},
	},
	DynamicVariableGeneration: &VariablePlan{
		Description: "Auto-generate all variables to be 100% unique for each generation.",
		Steps: []VariableStep{
			{Step: 1, Action: "Generate Correspondents", Instruction: "Invent a unique sending entity and a unique recipient entity, both plausible for Saudi Arabia (companies, ministries, or authorities), with representative names and titles."},
			{Step: 2, Action: "Generate Subject and Purpose", Instruction: "Invent a specific, plausible subject (e.g., a request, a notification, a clarification) and the concrete facts the body will elaborate."},
			{Step: 3, Action: "Generate Reference and Dates", Instruction: "Generate a unique outgoing reference number and a valid date in both Hijri and Gregorian formats."},
		},
	},
	OutputFormatting: &OutputFormat{
		FinalOutputFormat: "HTML-wrapped Markdown",
		Description:       "A single `<div dir='rtl'>...</div>` block containing pure Markdown.",
		Language:          "Arabic",
	},
}

var agreementGenerationSpec = &Spec{
	PromptDetails: Details{
		Title:     "Bilateral Agreement Generator (Saudi Arabia)",
		Version:   "2.0",
		Objective: "To generate a unique, formal Arabic bilateral agreement (اتفاقية), such as a memorandum of understanding, framework agreement, or partnership agreement, in right-to-left Markdown with styled HTML tables.",
	},
	Instructions: Instructions{
		RoleAndContext: "You are an advanced legal AI drafting Saudi Arabian bilateral agreements. You will receive this JSON prompt and generate a single, complete, and unique agreement as a clean, right-to-left formatted document.",
		CoreDirectives: []string{
			"**Absolute Uniqueness & Auto-Population Required:** All names, objectives, obligations, dates (Hijri and Gregorian), and signature blocks MUST be fully and uniquely auto-populated. No placeholders may remain.",
			"**Mandatory Party Designations:** The preamble and the signature block must designate the parties with '**الطرف الأول:**' and '**الطرف الثاني:**' lines naming each party's full legal name.",
			"**Agreement Structure:** Include a preamble (الديباجة), purpose and scope, mutual obligations of each party, term and renewal, confidentiality, governing law, and dispute resolution, in 8-12 sections with unique descriptive titles.",
			"**CRITICAL TABLE RULE:** Any HTML table generated (e.g., obligations matrix, milestone schedule) must have every `<td>` cell filled with plausible, context-specific data.",
			"**RTL Document Structure:** Wrap the entire output in a single `<div dir='rtl'>...</div>` container. The content inside is Markdown with embedded HTML for tables.",
			"**Final Output is Document Only:** Respond with the single `<div>` block only.",
		},
	},
	DynamicVariableGeneration: &VariablePlan{
		Description: "Auto-generate all variables to be 100% unique for each generation.",
		Steps: []VariableStep{
			{Step: 1, Action: "Generate Parties and Purpose", Instruction: "Invent two unique parties plausible for Saudi Arabia and a specific cooperation purpose binding them."},
			{Step: 2, Action: "Generate Term and Dates", Instruction: "Generate the agreement term and a valid signing date in both Hijri and Gregorian formats, the Gregorian with an English month name (e.g., '17 September 2025')."},
		},
	},
	OutputFormatting: &OutputFormat{
		FinalOutputFormat: "HTML-wrapped Markdown",
		Description:       "A single `<div dir='rtl'>...</div>` block containing Markdown with embedded HTML for tables.",
		Language:          "Arabic",
	},
}

// amendmentSpec builds the per-type amendment specification. The binding slot
// is filled by Amendment at call time.
func amendmentSpec(arabicLabel, english string) *Spec {
	return &Spec{
		PromptDetails: Details{
			Title:     "Intelligent Document Amendment Generator (Saudi Arabia)",
			Version:   "2.0",
			Objective: "To intelligently amend an existing Arabic " + english + ", producing a new version with plausible, logical changes while preserving the core structure and intent.",
		},
		Instructions: Instructions{
			RoleAndContext: "You are an advanced legal AI acting as a professional legal reviewer. You will be given the full text of an existing Saudi Arabian " + english + " (" + arabicLabel + "). Your task is to analyze it and generate a complete, amended version of that document.",
			CoreDirectives: []string{
				"**Analyze and Amend:** Read the provided document carefully. Introduce 2-4 logical and meaningful amendments. Examples of good amendments include: adjusting a deadline, modifying a financial figure (and ensuring totals still add up), updating a technical detail, or clarifying a clause's wording. Avoid trivial changes.",
				"**Preserve Core Identity:** Do not change the fundamental details like the names of the parties, the document's core objective, or the legal framework. The amended document must clearly be a new version of the original, not a completely new " + english + ".",
				"**Maintain Format and Integrity:** Return the amended document in the exact same format as the original, including its `<div dir='rtl'>...</div>` container, Markdown structure, and any HTML tables. Ensure all internal consistency (like financial totals) is maintained after your amendments.",
				"**Final Output is Document Only:** Your entire response must be the complete, amended document. Do not include any commentary, analysis, or list of changes you made.",
			},
		},
		Input: &Input{
			Description:  "The full Markdown text of the original document to amend.",
			VariableName: "originalDocumentText",
		},
	}
}

// finalizationSpec builds the per-type finalization specification.
func finalizationSpec(arabicLabel, english string) *Spec {
	return &Spec{
		PromptDetails: Details{
			Title:     "Document Finalization Generator (Saudi Arabia)",
			Version:   "1.0",
			Objective: "To produce the final, execution-ready version of an existing Arabic " + english + ", resolving residual inconsistencies and completing every formal element.",
		},
		Instructions: Instructions{
			RoleAndContext: "You are an advanced legal AI preparing a Saudi Arabian " + english + " (" + arabicLabel + ") for execution. You will be given the document's full text and must return its final version.",
			CoreDirectives: []string{
				"**Finalize, Do Not Redesign:** Keep the document's structure, parties, and substantive terms intact. Your changes are limited to resolving inconsistencies, completing any remaining formal elements, and polishing wording to execution quality.",
				"**Consistency Sweep:** Verify that names, dates, figures, and cross-references agree everywhere in the document, including inside tables, and correct any disagreement.",
				"**Completeness Sweep:** Ensure the signature block, dates in both calendars, and all tables are fully populated. No placeholder or empty `<td>` may remain.",
				"**Maintain Format:** Return the document in the exact same format as the original, including its `<div dir='rtl'>...</div>` container.",
				"**Final Output is Document Only:** Your entire response must be the complete, finalized document with no commentary.",
			},
		},
		Input: &Input{
			Description:  "The full Markdown text of the document to finalize.",
			VariableName: "originalDocumentText",
		},
	}
}

// judgeBase evaluates a candidate document against the specification that
// produced it. The bindings are filled by Judge at call time.
var judgeBase = &Spec{
	PromptDetails: Details{
		Title:     "Document Quality Judge",
		Version:   "2.0",
		Objective: "To evaluate a generated Arabic legal document strictly against the original generation specification and return a structured verdict.",
	},
	Instructions: Instructions{
		RoleAndContext: "You are a meticulous legal quality auditor. You will receive the original generation specification in `originalSpecification` and the candidate document in `candidateDocument`. Judge the candidate strictly against the specification's directives, checklist, and output contract.",
		CoreDirectives: []string{
			"**Judge Against the Specification Only:** The `originalSpecification` is the sole rubric. Do not apply standards it does not state.",
			"**Check Every Directive:** Verify each core directive and every self-checklist rule. Pay particular attention to empty or placeholder table cells, unresolved placeholders, internal inconsistencies in names, dates, and financial totals, and violations of the required output format.",
			"**Itemize Defects:** For each defect found, record its type, its location in the document, and a concrete description of what is wrong.",
			"**Strict Verdict Format:** Respond with a single JSON object of the exact form {\"decision\": \"APPROVED\"|\"REJECTED\", \"reason\": string, \"errors\": [{\"errorType\": string, \"location\": string, \"description\": string}]}. `errors` must be empty when the decision is APPROVED. Output nothing outside this JSON object.",
		},
	},
}

// correctionBase regenerates a rejected document. The original specification
// and the judge's itemized errors are bound by Correction at call time.
var correctionBase = &Spec{
	PromptDetails: Details{
		Title:     "Document Correction Generator",
		Version:   "2.0",
		Objective: "To regenerate an Arabic legal document that fully satisfies its original generation specification, specifically correcting the defects identified by the quality judge.",
	},
	Instructions: Instructions{
		RoleAndContext: "You are an advanced legal AI. Your previous output was rejected by a quality audit. The original specification is provided in `originalGenerationPrompt` and the audit findings in `errorsToCorrect`. Generate a corrected document.",
		CoreDirectives: []string{
			"**Satisfy the Original Specification in Full:** Every directive, checklist rule, and output-format requirement of `originalGenerationPrompt` applies unchanged to this regeneration.",
			"**Correct Every Listed Defect:** Each entry in `errorsToCorrect.specificErrors` must be demonstrably fixed in the new output. The `rejectionReason` summarizes what went wrong overall.",
			"**Regenerate Completely:** Produce a complete document, not a patch or a list of changes.",
			"**Final Output is Document Only:** Respond with the document alone, in the format the original specification requires, with no commentary.",
		},
	},
}

// catalog maps (operation, type, variant) to its base specification. Values
// are never handed out directly; the lookup functions clone them first.
var catalog = map[catalogKey]*Spec{
	{document.OpNew, document.TypeContract, document.VariantDyno}: contractDynoSpec,
	{document.OpNew, document.TypeContract, document.VariantRevo}: contractRevoSpec,
	{document.OpNew, document.TypeLetter, ""}:                     letterGenerationSpec,
	{document.OpNew, document.TypeAgreement, ""}:                  agreementGenerationSpec,

	{document.OpVersion, document.TypeContract, ""}:  amendmentSpec("عقد", "contract"),
	{document.OpVersion, document.TypeLetter, ""}:    amendmentSpec("خطاب", "letter"),
	{document.OpVersion, document.TypeAgreement, ""}: amendmentSpec("اتفاقية", "agreement"),

	{document.OpFinal, document.TypeContract, ""}:  finalizationSpec("عقد", "contract"),
	{document.OpFinal, document.TypeLetter, ""}:    finalizationSpec("خطاب", "letter"),
	{document.OpFinal, document.TypeAgreement, ""}: finalizationSpec("اتفاقية", "agreement"),
}
