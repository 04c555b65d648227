package xmi

import (
	"fmt"
	"strings"

	"github.com/pzaremba/flowxmi/pkg/flow"
)

// umlType maps node kinds to the UML 2.1 element types EA expects in the
// model section.
func umlType(k flow.Kind) string {
	switch k {
	case flow.KindInitial:
		return "uml:InitialNode"
	case flow.KindFinal:
		return "uml:ActivityFinalNode"
	case flow.KindDecision:
		return "uml:DecisionNode"
	case flow.KindMerge:
		return "uml:MergeNode"
	case flow.KindFork:
		return "uml:ForkNode"
	case flow.KindJoin:
		return "uml:JoinNode"
	case flow.KindNote:
		return "uml:Comment"
	default:
		return "uml:Action"
	}
}

// eaNType maps node kinds to EA's numeric element subtype. The values come
// from EA's internal t_object.NType column.
func eaNType(k flow.Kind) int {
	switch k {
	case flow.KindInitial:
		return 100
	case flow.KindFinal:
		return 101
	case flow.KindDecision:
		return 131
	case flow.KindMerge:
		return 133
	default:
		return 0
	}
}

// eaSType maps node kinds to EA's element type string.
func eaSType(k flow.Kind) string {
	switch k {
	case flow.KindInitial, flow.KindFinal:
		return "StateNode"
	case flow.KindDecision:
		return "Decision"
	case flow.KindMerge:
		return "Merge"
	case flow.KindFork, flow.KindJoin:
		return "Synchronization"
	case flow.KindNote:
		return "Note"
	default:
		return "Action"
	}
}

// EA color values as signed 24-bit BGR integers.
const (
	colorActionDefault = 13434828 // pale green
	colorActionSuccess = 8454143  // light green
	colorActionFailure = 5263615  // light red
	colorDiamond       = 16777062 // pale yellow
	colorNote          = 16777215 // white
	laneStyle          = "LineColor=15461355;FillColor=14993154;LineWidth=1;BorderStyle=0;VPartition=1;"
)

// Action labels hinting at an outcome get an outcome color in the diagram.
var (
	successWords = []string{"success", "complete", "confirm", "approve", "accept"}
	failureWords = []string{"fail", "error", "reject", "cancel", "abort", "deny"}
)

// nodeStyle returns the EA object style string for the node's diagram record.
func nodeStyle(n *flow.Node) string {
	switch n.Kind {
	case flow.KindInitial:
		return "BorderColor=-1;BorderWidth=-1;BColor=0;FontColor=-1;BorderWidth=0;Shape=Circle;"
	case flow.KindFinal:
		return "BorderColor=-1;BorderWidth=-1;BColor=0;FontColor=-1;BorderWidth=1;Shape=Circle;"
	case flow.KindDecision, flow.KindMerge:
		return style(colorDiamond, "Shape=Diamond;")
	case flow.KindFork, flow.KindJoin:
		return "BorderColor=-1;BorderWidth=-1;BColor=0;FontColor=-1;LineWidth=3;Shape=Rectangle;"
	case flow.KindNote:
		return style(colorNote, "BorderStyle=Dashed;")
	default:
		return style(actionColor(n.Label), "BorderRadius=10;")
	}
}

func style(bcolor int, extra string) string {
	return fmt.Sprintf("BorderColor=-1;BorderWidth=-1;BColor=%d;FontColor=-1;%s", bcolor, extra)
}

func actionColor(label string) int {
	l := strings.ToLower(label)
	for _, w := range successWords {
		if strings.Contains(l, w) {
			return colorActionSuccess
		}
	}
	for _, w := range failureWords {
		if strings.Contains(l, w) {
			return colorActionFailure
		}
	}
	return colorActionDefault
}

// diagramStyle1 is EA's fixed diagram style record. DocSize matches an A4
// page so EA does not rescale on import.
const diagramStyle1 = "ShowPrivate=1;ShowProtected=1;ShowPublic=1;HideRelationships=0;Locked=0;Border=1;" +
	"HighlightForeign=1;PackageContents=1;SequenceNotes=0;ScalePrintImage=0;PPgs.cx=0;PPgs.cy=0;" +
	"DocSize.cx=795;DocSize.cy=1134;ShowDetails=0;Orientation=P;Zoom=100;ShowTags=0;OpParams=1;" +
	"VisibleAttributeDetail=0;ShowOpRetType=1;ShowIcons=1;CollabNums=0;HideProps=0;ShowReqs=0;ShowCons=0;" +
	"PaperSize=9;HideParents=0;UseAlias=0;HideAtts=0;HideOps=0;HideStereo=0;HideElemStereo=0;" +
	"ShowTests=0;ShowMaint=0;ConnectorNotation=UML 2.1;ExplicitNavigability=0;ShowShape=1;" +
	"AdvancedElementProps=1;AdvancedFeatureProps=1;AdvancedConnectorProps=1;m_bElementClassifier=1;" +
	"ShowNotes=0;SuppressBrackets=0;SuppConnectorLabels=0;PrintPageHeadFoot=0;ShowAsList=0;"

const diagramStyle2 = "ExcludeRTF=0;DocAll=0;HideQuals=0;AttPkg=1;ShowTests=0;ShowMaint=0;" +
	"SuppressFOC=1;MatrixActive=0;SwimlanesActive=1;KanbanActive=0;MatrixLineWidth=1;" +
	"MatrixLineClr=0;MatrixLocked=0;TConnectorNotation=UML 2.1;TExplicitNavigability=0;" +
	"AdvancedElementProps=1;AdvancedFeatureProps=1;AdvancedConnectorProps=1;m_bElementClassifier=1;" +
	"SPT=1;MDGDgm=;STBLDgm=;ShowNotes=0;VisibleAttributeDetail=0;ShowOpRetType=1;SuppressBrackets=0;" +
	"SuppConnectorLabels=0;PrintPageHeadFoot=0;ShowAsList=0;"

// swimlaneHeader is the fixed prefix of EA's swimlane definition string;
// per-lane entries are appended by the serializer.
const swimlaneHeader = "locked=false;orientation=0;width=0;inbar=false;names=false;color=-1;" +
	"bold=false;fcol=0;tcol=-1;ofCol=-1;ufCol=-1;hl=0;ufh=0;hh=0;cls=0;SwimlaneFont=lfh:-13,lfw:0," +
	"lfi:0,lfu:0,lfs:0,lfface:Calibri,lfe:0,lfo:0,lfchar:1,lfop:0,lfcp:0,lfq:0,lfpf=0,lfWidth=0;"
