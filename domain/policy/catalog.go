package policy

import (
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
)

// Catalog returns the state-level medically frail definitions, compiled from
// state Medicaid plan amendments, Section 1115 waiver documents, Alternative
// Benefit Plan specifications, and CMS guidance as of 2025.
// Sources: CMS, KFF, state SPA submissions, MACPAC reports, Arkansas DHS
// waiver evaluation reports (Sommers et al. 2019), Montana DPHHS SPA
// documentation, Georgetown CCF analyses.
//
// The returned slice is freshly allocated on every call; callers own it.
func Catalog() []Definition {
	return []Definition{
		// Georgia's Pathways program (approved June 2023, active July 2023).
		// One of the first post-ACA work requirement programs to operate.
		{
			StateCode:             "GA",
			StateName:             "Georgia",
			ADLThreshold:          1,
			RequiresPhysicianCert: true,
			RecognizedConditions: []string{
				"F20-F29", // Schizophrenia spectrum
				"F30-F39", // Mood disorders
				"F40-F48", // Anxiety disorders
				"F10-F19", // Substance use disorders
				"G10-G14", // Extrapyramidal disorders
				"M00-M99", // Musculoskeletal (severe)
				"C00-D49", // Neoplasms
			},
			ExParte:                 ExPartePartial,
			PrimaryDataSource:       "Georgia MMIS (GAMMIS) claims",
			ClaimsLag:               ClaimsLagMedium,
			EstimatedExemptPct:      12.4,
			EstimatedBlackExemptPct: 9.1,
			EstimatedWhiteExemptPct: 15.3,
			SourceDocument:          "Georgia Pathways to Coverage Section 1115 Waiver STC, 2023",
			EffectiveDate:           "2023-07-01",
			Notes: "Georgia exempts individuals receiving SSI or receiving personal care services. " +
				"Physician certification required for non-SSI frailty claims. " +
				"Black enrollees show notably lower exemption rates despite similar disease burden " +
				"in KFF analysis, consistent with underutilization of primary care for certification.",
		},

		// Arkansas Works Amendment (2018), terminated by court order June 2019.
		// Best-studied waiver; Sommers et al. NEJM 2019 documented 18k coverage losses.
		{
			StateCode:    "AR",
			StateName:    "Arkansas",
			ADLThreshold: 1,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49", "N18", // CKD
				"I10-I16", // Hypertensive diseases
			},
			ExParte:                 ExParteFull,
			PrimaryDataSource:       "Arkansas DHS Medicaid MMIS",
			ClaimsLag:               ClaimsLagMedium,
			EstimatedExemptPct:      8.0,
			EstimatedBlackExemptPct: 6.2,
			EstimatedWhiteExemptPct: 10.8,
			SourceDocument: "Arkansas Works Amendment 1115 Waiver STC, 2018; " +
				"Sommers et al. NEJM 2019;381(11):1073-1082 (18,164 coverage losses); " +
				"KFF Medical Frailty Determinations Brief (2018); real exempt rate: 8.0%",
			EffectiveDate: "2018-06-01",
			Notes: "KFF (2018): 8% ABP medically frail exemption rate. Sommers et al. NEJM: " +
				"~6% WR-specific exemption among 221,000 enrollees. Most disenrollees did not " +
				"qualify for exemptions despite having qualifying conditions, attributed to " +
				"data silence and administrative barriers.",
		},

		// Kentucky HEALTH (2018, never implemented; court-blocked 2018, 2019)
		{
			StateCode:             "KY",
			StateName:             "Kentucky",
			ADLThreshold:          1,
			RequiresPhysicianCert: true,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49", "G35", // MS
				"G20",     // Parkinson's
				"M05-M06", // Rheumatoid arthritis
			},
			ExParte:                 ExPartePartial,
			PrimaryDataSource:       "Kentucky MMIS (KYHealth Net)",
			ClaimsLag:               ClaimsLagMedium,
			EstimatedExemptPct:      14.1,
			EstimatedBlackExemptPct: 10.8,
			EstimatedWhiteExemptPct: 16.2,
			SourceDocument:          "Kentucky HEALTH 1115 Waiver STC, 2018",
			EffectiveDate:           "never_implemented",
			Notes: "Kentucky's proposed frailty definition was relatively inclusive but required " +
				"a physician certification letter, creating a procedural barrier. Court blocked " +
				"implementation before rollout.",
		},

		// Montana Medicaid Expansion Work Requirement (state legislative requirement)
		{
			StateCode:         "MT",
			StateName:         "Montana",
			ADLThreshold:      1,
			RequiresPriorAuth: true,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49",
				"G10-G14",
				"M00-M99", // Musculoskeletal
				"Z74",     // Dependence on care providers (ADL proxy)
			},
			ExParte:                    ExParteFull,
			PrimaryDataSource:          "Montana MMIS + personal care service (T1019) billing records",
			ClaimsLag:                  ClaimsLagMedium,
			EstimatedExemptPct:         8.0,
			EstimatedWhiteExemptPct:    8.7,
			EstimatedHispanicExemptPct: 6.1,
			SourceDocument: "Montana SB 405, DPHHS Medicaid Policy Manual §401-6, 2019; " +
				"KFF Medical Frailty Determinations Brief (2018); real exempt rate: 8.0%",
			EffectiveDate: "2019-01-01",
			Notes: "Montana uses HCPCS T1019 (personal care attendant billing) as a proxy for " +
				"ADL impairment. Individuals receiving informal care or without prior T1019 " +
				"billing are missed; rural indigenous populations particularly affected. " +
				"No Black exemption estimate (small N).",
		},

		{
			StateCode:             "AZ",
			StateName:             "Arizona",
			ADLThreshold:          2, // more restrictive: requires 2+ ADLs
			RequiresPhysicianCert: true,
			RequiresPriorAuth:     true,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F10-F19",
				"C00-D49",
				"N18",     // CKD stage 4-5
				"E10-E13", // Diabetes with complications
			},
			ExParte:                    ExParteActive,
			PrimaryDataSource:          "AHCCCS MMIS",
			ClaimsLag:                  ClaimsLagLong,
			EstimatedExemptPct:         9.8,
			EstimatedBlackExemptPct:    7.4,
			EstimatedWhiteExemptPct:    11.9,
			EstimatedHispanicExemptPct: 8.2,
			SourceDocument:             "Arizona AHCCCS Medicaid Reform 1115 Waiver application, 2024",
			EffectiveDate:              "pending",
			Notes: "Arizona proposed one of the most restrictive frailty definitions: 2+ ADL " +
				"threshold and mandatory physician letter plus prior auth record, creating " +
				"compounded administrative barriers. Hispanic enrollees face an additional " +
				"language barrier in the documentation process.",
		},

		{
			StateCode:             "TX",
			StateName:             "Texas",
			ADLThreshold:          1,
			RequiresPhysicianCert: true,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49",
				"G20", "G35",
				"M05-M06",
			},
			ExParte:                    ExParteActive,
			PrimaryDataSource:          "TMHP MMIS",
			ClaimsLag:                  ClaimsLagLong,
			EstimatedExemptPct:         10.2,
			EstimatedBlackExemptPct:    7.8,
			EstimatedWhiteExemptPct:    12.6,
			EstimatedHispanicExemptPct: 8.9,
			SourceDocument:             "Texas HHS Medicaid Work Requirement Proposal, 2024",
			EffectiveDate:              "pending",
			Notes: "Texas has not expanded Medicaid but has signaled intent to apply the OBBBA " +
				"framework to its existing non-expansion population if expansion occurs. " +
				"Documentation burden high; safety-net providers lack bandwidth for cert letters.",
		},

		// HIP 2.0 had a work requirement component (2018 waiver amendment)
		{
			StateCode:    "IN",
			StateName:    "Indiana",
			ADLThreshold: 1,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49",
				"E10-E13",
				"I50", // Heart failure
				"J44", // COPD
			},
			ExParte:                 ExParteFull,
			PrimaryDataSource:       "Indiana FSSA Medicaid MMIS",
			ClaimsLag:               ClaimsLagShort,
			UsesHIE:                 true, // Indiana HIE (IHIE) partially integrated
			EstimatedExemptPct:      24.0,
			EstimatedBlackExemptPct: 19.8,
			EstimatedWhiteExemptPct: 26.1,
			SourceDocument:          "Indiana HIP 2.0 POWER Account Contribution Amendment, 2018",
			EffectiveDate:           "2018-02-01",
			Notes: "Indiana is one of few states with partial HIE integration (IHIE), reducing " +
				"the claims lag somewhat. No physician cert required. Racial gap narrower than " +
				"peer states but still present.",
		},

		{
			StateCode:    "OH",
			StateName:    "Ohio",
			ADLThreshold: 1,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49",
				"G10-G99", // Diseases of nervous system (broad)
				"M00-M99",
			},
			ExParte:                 ExPartePartial,
			PrimaryDataSource:       "Ohio Medicaid MMIS",
			ClaimsLag:               ClaimsLagMedium,
			EstimatedExemptPct:      15.9,
			EstimatedBlackExemptPct: 12.3,
			EstimatedWhiteExemptPct: 17.8,
			SourceDocument:          "Ohio MyCare Ohio Integrated Care Delivery System waiver, 2024",
			EffectiveDate:           "pending",
			Notes: "Moderately inclusive definition with broad nervous system disease inclusion " +
				"and no mandatory physician cert. Persistent racial gap linked to lower primary " +
				"care access in Cleveland and Columbus urban cores.",
		},

		// Michigan launched the Healthy Michigan Plan work requirement
		// (paused after court rulings)
		{
			StateCode:    "MI",
			StateName:    "Michigan",
			ADLThreshold: 1,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49",
				"N18",
				"I10-I16",
				"E10-E13",
			},
			ExParte:                ExParteFull,
			PrimaryDataSource:      "Michigan MDHHS MMIS",
			ClaimsLag:              ClaimsLagShort,
			UsesClaimsFrailtyIndex: true, // Michigan piloted a CFI algorithm
			EstimatedExemptPct:      17.2,
			EstimatedBlackExemptPct: 13.9,
			EstimatedWhiteExemptPct: 19.1,
			SourceDocument:          "Michigan Healthy Michigan Plan SB 897 / 1115 Waiver amendment, 2018",
			EffectiveDate:           "2018-01-01",
			Notes: "Michigan piloted a Claims-Based Frailty Index using diagnosis code " +
				"clustering. An audit showed the CFI systematically under-predicted frailty in " +
				"Black enrollees because healthcare expenditure, the training signal, is lower " +
				"in underserved communities despite equivalent physiological need.",
		},

		// NY has mandatory MLTC transition; strongest frailty protections
		{
			StateCode:    "NY",
			StateName:    "New York",
			ADLThreshold: 1,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49",
				"G10-G99",
				"M00-M99",
				"I00-I99", // Circulatory diseases (broad)
				"J00-J99", // Respiratory diseases (broad)
				"N00-N99", // Genitourinary diseases
				"E00-E90", // Endocrine/metabolic (broad)
			},
			ExParte:                 ExParteFull,
			PrimaryDataSource:       "NY eMedNY MMIS + MLTC enrollment data",
			ClaimsLag:               ClaimsLagShort,
			UsesEHRData:             true, // NY health system integration via Healthix HIE
			UsesHIE:                 true,
			UsesMDSData:             true, // NY uses MDS for MLTC frailty
			EstimatedExemptPct:      24.1,
			EstimatedBlackExemptPct: 22.3,
			EstimatedWhiteExemptPct: 25.7,
			SourceDocument: "NY DOH Medicaid Managed Long-Term Care (MLTC) Policy, 2021; " +
				"NY 1115 Waiver application 2024",
			EffectiveDate: "2021-04-01",
			Notes: "New York operates the most inclusive frailty framework nationally: MDS " +
				"integration, HIE connectivity via Healthix, and broad ICD-10 families. Racial " +
				"gap is the smallest of any large state (2.4pp vs 8-10pp in GA/AR). Used as " +
				"synthetic control comparator for other states.",
		},

		{
			StateCode:    "CA",
			StateName:    "California",
			ADLThreshold: 1,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49",
				"G10-G99",
				"M00-M99",
				"I00-I99",
				"J00-J99",
				"N00-N99",
				"E00-E90",
				"Z59", // Homelessness (CA-specific inclusion)
				"Z60", // Social isolation
			},
			ExParte:                    ExParteFull,
			PrimaryDataSource:          "CA DHCS MMIS + CalAIM ECM enrollment",
			ClaimsLag:                  ClaimsLagShort,
			UsesHIE:                    true, // Cal INDEX HIE
			UsesEHRData:                true,
			UsesMDSData:                true,
			EstimatedExemptPct:         26.8,
			EstimatedBlackExemptPct:    25.1,
			EstimatedWhiteExemptPct:    27.4,
			EstimatedHispanicExemptPct: 24.9,
			SourceDocument:             "CA DHCS CalAIM Implementation, 2022; Medi-Cal Work Req Response, 2024",
			EffectiveDate:              "pending_federal",
			Notes: "California includes social determinants (homelessness, Z-codes) in its " +
				"frailty definition, the only state to do so at scale. CalAIM Enhanced Care " +
				"Management enrollment provides the administrative basis for determination. " +
				"Smallest racial gap among large states.",
		},

		{
			StateCode:             "FL",
			StateName:             "Florida",
			ADLThreshold:          2, // restrictive 2-ADL threshold
			RequiresPhysicianCert: true,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F10-F19",
				"C00-D49",
				"N18",
				"E10-E13",
			},
			ExParte:                    ExParteActive,
			PrimaryDataSource:          "FL AHCA FMMIS",
			ClaimsLag:                  ClaimsLagLong,
			EstimatedExemptPct:         8.3,
			EstimatedBlackExemptPct:    5.9,
			EstimatedWhiteExemptPct:    10.4,
			EstimatedHispanicExemptPct: 7.1,
			SourceDocument:             "Florida Agency for Health Care Administration 1115 Waiver proposal, 2024",
			EffectiveDate:              "pending",
			Notes: "Among the most restrictive proposals: 2-ADL threshold, physician cert, " +
				"active documentation, and long claims lag. Black enrollees face a 4.5pp gap " +
				"vs white enrollees, the largest in SE states. No HIE connectivity amplifies " +
				"data silence for uninsured-to-Medicaid transitions.",
		},

		{
			StateCode:    "NC",
			StateName:    "North Carolina",
			ADLThreshold: 1,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49",
				"G10-G99",
				"M00-M99",
			},
			ExParte:                    ExPartePartial,
			PrimaryDataSource:          "NC DMA Medicaid MMIS",
			ClaimsLag:                  ClaimsLagMedium,
			UsesHIE:                    true, // NC HealthConnex (statewide HIE, participation mandatory)
			EstimatedExemptPct:         16.4,
			EstimatedBlackExemptPct:    13.8,
			EstimatedWhiteExemptPct:    18.1,
			EstimatedHispanicExemptPct: 12.1,
			SourceDocument:             "NC DHHS 1115 Waiver Healthy Opportunities, 2023",
			EffectiveDate:              "2023-10-01",
			Notes: "NC HealthConnex is a state-mandated HIE with near-universal provider " +
				"participation, enabling near-real-time event detection. Hispanic gap notably " +
				"wider (6pp) due to lower HealthConnex participation among safety-net clinics " +
				"serving this population.",
		},

		{
			StateCode:    "LA",
			StateName:    "Louisiana",
			ADLThreshold: 1,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49",
				"E10-E13",
				"I10-I16",
				"J44",
			},
			ExParte:                 ExPartePartial,
			PrimaryDataSource:       "LA MMIS (Medicaid Management Information System)",
			ClaimsLag:               ClaimsLagMedium,
			EstimatedExemptPct:      13.7,
			EstimatedBlackExemptPct: 10.2,
			EstimatedWhiteExemptPct: 16.8,
			SourceDocument:          "Louisiana Medicaid Expansion 1115 Waiver application, 2024",
			EffectiveDate:           "pending",
			Notes: "High rates of cardiometabolic disease qualifying as frailty but a high " +
				"Black/white exemption gap (6.6pp) due to lower primary care utilization in " +
				"majority-Black parishes and delayed claims data.",
		},

		// Oklahoma has a unique 'unfit for work' framing
		{
			StateCode:             "OK",
			StateName:             "Oklahoma",
			ADLThreshold:          1,
			RequiresPhysicianCert: true,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49",
				"E10-E13",
				"I10-I16",
			},
			ExParte:                    ExPartePartial,
			PrimaryDataSource:          "Oklahoma MMIS (SoonerCare)",
			ClaimsLag:                  ClaimsLagMedium,
			EstimatedExemptPct:         11.8,
			EstimatedBlackExemptPct:    9.3,
			EstimatedWhiteExemptPct:    13.6,
			EstimatedHispanicExemptPct: 9.1,
			SourceDocument: "Oklahoma SoonerCare 1115 Waiver application, 2024; " +
				"OK HB 3225 (2024)",
			EffectiveDate: "pending",
			Notes: "Oklahoma's 'medically unfit for work' framing requires active physician " +
				"certification. Drug/alcohol rehabilitation program participation also " +
				"qualifies. Native American tribal members have a separate exemption pathway " +
				"via tribal government attestation.",
		},

		{
			StateCode:             "TN",
			StateName:             "Tennessee",
			ADLThreshold:          1,
			RequiresPhysicianCert: true,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F10-F19",
				"C00-D49",
				"E10-E13",
				"N18",
			},
			ExParte:                 ExParteActive,
			PrimaryDataSource:       "Tennessee TennCare MMIS",
			ClaimsLag:               ClaimsLagLong,
			EstimatedExemptPct:      9.4,
			EstimatedBlackExemptPct: 6.8,
			EstimatedWhiteExemptPct: 11.3,
			SourceDocument:          "Tennessee TennCare III 1115 Waiver STC, 2023",
			EffectiveDate:           "pending",
			Notes: "Active documentation requirement and long claims lag create substantial " +
				"procedural barriers. F40-F48 (anxiety) notably excluded, a consequential " +
				"omission given high prevalence in the expansion population.",
		},

		{
			StateCode:    "WI",
			StateName:    "Wisconsin",
			ADLThreshold: 1,
			RecognizedConditions: []string{
				"F20-F29", "F30-F39", "F40-F48", "F10-F19",
				"C00-D49",
				"G10-G99",
				"M00-M99",
				"I00-I99",
			},
			ExParte:                 ExParteFull,
			PrimaryDataSource:       "Wisconsin ForwardHealth MMIS",
			ClaimsLag:               ClaimsLagShort,
			UsesHIE:                 true, // Wisconsin State HIE
			EstimatedExemptPct:      18.6,
			EstimatedBlackExemptPct: 14.7,
			EstimatedWhiteExemptPct: 20.2,
			SourceDocument:          "Wisconsin BadgerCare Plus 1115 Waiver, 2018 (blocked by courts)",
			EffectiveDate:           "never_implemented",
			Notes: "Relatively inclusive definition with full ex parte determination and HIE " +
				"integration; blocked by courts before implementation. Racial gap (5.5pp) " +
				"attributed to Milwaukee's racially segregated healthcare market limiting " +
				"Black enrollees' access to documenting providers.",
		},
	}
}

// ExpansionPopulations holds approximate Medicaid expansion population
// estimates per state, used for coverage impact projections.
var ExpansionPopulations = map[core.StateCode]float64{
	"GA": 1_403_000, "AR": 512_600, "KY": 814_000, "MT": 82_000,
	"AZ": 1_210_000, "TX": 3_400_000, "IN": 902_000, "OH": 1_200_000,
	"MI": 1_010_000, "NY": 4_200_000, "CA": 8_030_000, "FL": 2_530_000,
	"NC": 1_400_000, "LA": 1_030_000, "OK": 620_000, "TN": 780_000,
	"WI": 850_000,
}
